package services

import (
	"github.com/lumichat/videobridge/pkg/internal/database"
	"github.com/lumichat/videobridge/pkg/internal/models"
	"gorm.io/datatypes"
)

func GetChannelWithAlias(alias string) (models.Channel, error) {
	var channel models.Channel
	if err := database.C.Where(models.Channel{
		Alias: alias,
	}).First(&channel).Error; err != nil {
		return channel, err
	}
	return channel, nil
}

// GetChannelIdentity resolves a channel together with the requester's
// membership in it; an error means the user cannot access the channel.
func GetChannelIdentity(alias string, user uint) (models.Channel, models.ChannelMember, error) {
	var member models.ChannelMember

	channel, err := GetChannelWithAlias(alias)
	if err != nil {
		return channel, member, err
	}

	if err := database.C.Where(models.ChannelMember{
		ChannelID: channel.ID,
		AccountID: user,
	}).First(&member).Error; err != nil {
		return channel, member, err
	}

	return channel, member, nil
}

// SaveStreamingOptions writes the per-channel session state; an empty map
// clears it, {"type":"call"} marks an ongoing conference.
func SaveStreamingOptions(channel models.Channel, options map[string]any) error {
	return database.C.Model(&models.Channel{}).
		Where("id = ?", channel.ID).
		Update("streaming_options", datatypes.JSONMap(options)).Error
}
