package chatRepo

import "timebank/models"

// MessageRepository defines methods for chat message persistence.
type MessageRepository interface {
	// Save persists a chat message.
	Save(msg *models.ChatMessage) error
	// History retrieves up to limit messages for a channel, oldest first.
	History(channelKey string, limit int64) ([]models.ChatMessage, error)
}
