package storage

import (
	"context"
	"testing"
	"time"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	return db
}

func TestDirectory_ChatMembers(t *testing.T) {
	db := setupTestDB(t)
	dir := NewDirectory(db)
	ctx := context.Background()

	chat := &domain.Chat{
		ID:      domain.ChatID(uuid.NewString()),
		Name:    "friends",
		Members: []domain.UserID{"alice", "bob", "carol"},
	}
	require.NoError(t, dir.AddChat(ctx, chat))

	got, err := dir.ChatMembers(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "friends", got.Name)
	assert.ElementsMatch(t, chat.Members, got.Members)
}

func TestDirectory_ChatNotFound(t *testing.T) {
	db := setupTestDB(t)
	dir := NewDirectory(db)

	_, err := dir.ChatMembers(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestMessages_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	msgs := NewMessages(db)
	ctx := context.Background()

	sender := &domain.User{ID: "alice", Username: "alice", Name: "Alice"}
	first := domain.NewMessage(sender, "chat1", "first")
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := domain.NewMessage(sender, "chat1", "second")

	require.NoError(t, msgs.Save(ctx, second))
	require.NoError(t, msgs.Save(ctx, first))
	require.NoError(t, msgs.Save(ctx, domain.NewMessage(sender, "chat2", "elsewhere")))

	rows, err := msgs.ByChat(ctx, "chat1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Content, "listing is oldest first")
	assert.Equal(t, "second", rows[1].Content)
	assert.Equal(t, "alice", rows[0].SenderID)
}
