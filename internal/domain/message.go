package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the in-flight envelope for one chat message. The ID is
// generated locally at send time; durable storage happens after relay.
type Message struct {
	ID        string    `json:"_id"`
	Sender    User      `json:"sender"`
	ChatID    ChatID    `json:"chatId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage builds an envelope with a fresh ID and timestamp, snapshotting
// the sender as it is at send time.
func NewMessage(sender *User, chatID ChatID, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Sender:    *sender,
		ChatID:    chatID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
