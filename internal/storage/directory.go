package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Chatter/internal/domain"
	"gorm.io/gorm"
)

// ErrChatNotFound is returned when a chat id resolves to nothing.
var ErrChatNotFound = errors.New("chat not found")

// Directory implements the relay's chat directory: chat id in, display
// name plus member identities out.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) ChatMembers(ctx context.Context, chatID domain.ChatID) (*domain.Chat, error) {
	var chat Chat
	if err := d.db.WithContext(ctx).First(&chat, "id = ?", string(chatID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}

	var rows []ChatMember
	if err := d.db.WithContext(ctx).Find(&rows, "chat_id = ?", string(chatID)).Error; err != nil {
		return nil, fmt.Errorf("failed to load chat members: %w", err)
	}

	members := make([]domain.UserID, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.UserID(row.UserID))
	}
	return &domain.Chat{
		ID:      chatID,
		Name:    chat.Name,
		Members: members,
	}, nil
}

// AddChat creates a chat with its member list. Used by migrations and
// tests; the CRUD service owns chat creation in production.
func (d *Directory) AddChat(ctx context.Context, chat *domain.Chat) error {
	row := Chat{ID: string(chat.ID), Name: chat.Name, GroupChat: len(chat.Members) > 2}
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	for _, uid := range chat.Members {
		member := ChatMember{ChatID: string(chat.ID), UserID: string(uid)}
		if err := d.db.WithContext(ctx).Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add chat member: %w", err)
		}
	}
	return nil
}
