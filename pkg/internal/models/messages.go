package models

type MessageType = uint8

const (
	MessageTypeText = MessageType(iota)
	MessageTypeSystem
)

type Message struct {
	BaseModel

	Uuid      string      `json:"uuid" gorm:"uniqueIndex"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	Channel   Channel     `json:"channel"`
	Sender    Account     `json:"sender"`
	ChannelID uint        `json:"channel_id"`
	SenderID  uint        `json:"sender_id"`
}
