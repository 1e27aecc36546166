// Package storage backs the chat directory and the message write path.
// The document CRUD surface lives in the account/chat services; the
// relay only ever reads membership and appends messages.
package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Chat mirrors the persisted chat document.
type Chat struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	GroupChat bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMember is one row per (chat, user) membership.
type ChatMember struct {
	ChatID string `gorm:"primaryKey;index"`
	UserID string `gorm:"primaryKey"`
}

// Message is the durable form of a relayed envelope: sender, chat,
// content. The relay-side fields (sender snapshot) are not stored.
type Message struct {
	ID        string `gorm:"primaryKey"`
	ChatID    string `gorm:"index"`
	SenderID  string
	Content   string
	CreatedAt time.Time
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&Chat{}, &ChatMember{}, &Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
