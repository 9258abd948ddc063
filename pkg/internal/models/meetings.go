package models

import "time"

// Meeting is an advisory history record of a conference held in a channel.
// The external meeting ID is never looked up from here; it is always
// derived from the installation ID prefix plus the channel alias.
type Meeting struct {
	BaseModel

	EndedAt *time.Time `json:"ended_at"`

	ExternalID string  `json:"external_id"`
	FounderID  uint    `json:"founder_id"`
	ChannelID  uint    `json:"channel_id"`
	Founder    Account `json:"founder"`
	Channel    Channel `json:"channel"`
}
