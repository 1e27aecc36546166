package storage

import (
	"context"
	"fmt"

	"github.com/dkeye/Chatter/internal/domain"
	"gorm.io/gorm"
)

// Messages is the persistence gateway target. The relay calls Save from
// a goroutine after delivery and ignores the outcome beyond a log line.
type Messages struct {
	db *gorm.DB
}

func NewMessages(db *gorm.DB) *Messages {
	return &Messages{db: db}
}

func (m *Messages) Save(ctx context.Context, msg *domain.Message) error {
	row := Message{
		ID:        msg.ID,
		ChatID:    string(msg.ChatID),
		SenderID:  string(msg.Sender.ID),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// ByChat lists a chat's stored messages oldest first.
func (m *Messages) ByChat(ctx context.Context, chatID domain.ChatID) ([]Message, error) {
	var rows []Message
	if err := m.db.WithContext(ctx).Order("created_at").Find(&rows, "chat_id = ?", string(chatID)).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return rows, nil
}
