package database

import (
	"github.com/lumichat/videobridge/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Channel{},
	&models.ChannelMember{},
	&models.Message{},
	&models.Meeting{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(AutoMaintainRange...); err != nil {
		return err
	}

	return nil
}
