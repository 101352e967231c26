package models

import "time"

// ChatMessage is a text message exchanged between two users about a service.
type ChatMessage struct {
	ID          string    `bson:"id" json:"id"`
	ChannelKey  string    `bson:"channel_key" json:"-"`
	ServiceID   string    `bson:"service_id" json:"service_id"`
	SenderID    string    `bson:"sender_id" json:"sender_id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	Text        string    `bson:"text" json:"text"`
	SentAt      time.Time `bson:"sent_at" json:"sent_at"`
}
