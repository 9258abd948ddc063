package services

import (
	"github.com/google/uuid"
	"github.com/lumichat/videobridge/pkg/internal/database"
	"github.com/lumichat/videobridge/pkg/internal/models"
)

func NewMessage(channel models.Channel, sender models.Account, content string) (models.Message, error) {
	message := models.Message{
		Uuid:      uuid.NewString(),
		Content:   content,
		Type:      models.MessageTypeText,
		ChannelID: channel.ID,
		SenderID:  sender.ID,
	}

	if err := database.C.Save(&message).Error; err != nil {
		return message, err
	}
	return message, nil
}
