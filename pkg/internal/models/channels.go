package models

import (
	"gorm.io/datatypes"
)

type ChannelType = uint8

const (
	ChannelTypeCommon = ChannelType(iota)
	ChannelTypeDirect
)

type Channel struct {
	BaseModel

	Alias       string          `json:"alias" gorm:"uniqueIndex"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []ChannelMember `json:"members"`
	Messages    []Message       `json:"messages"`
	Meetings    []Meeting       `json:"meetings"`
	Type        ChannelType     `json:"type"`
	AccountID   uint            `json:"account_id"`

	// StreamingOptions carries the per-channel session state consumed by
	// the chat clients; {"type":"call"} marks an ongoing conference.
	StreamingOptions datatypes.JSONMap `json:"streaming_options"`
}

// MeetingName is the conference room title pushed to the remote server.
// Direct channels get a neutral title instead of the peer's name.
func (v Channel) MeetingName() string {
	if v.Type == ChannelTypeDirect {
		return "Direct"
	}
	return v.Name
}

type ChannelMember struct {
	BaseModel

	ChannelID  uint    `json:"channel_id"`
	AccountID  uint    `json:"account_id"`
	Channel    Channel `json:"channel"`
	Account    Account `json:"account"`
	PowerLevel int     `json:"power_level"`
}
