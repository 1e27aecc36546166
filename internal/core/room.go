package core

import (
	"sync"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/rs/zerolog/log"
)

// Room is a threadsafe in-memory broadcast group keyed by chat ID.
// It tracks the connections currently viewing a chat, not the chat's
// persisted membership. It never closes adapter-owned resources.
type Room struct {
	chatID  domain.ChatID
	mu      sync.RWMutex
	members map[SessionID]SignalConnection
}

func NewRoom(chatID domain.ChatID) *Room {
	return &Room{
		chatID:  chatID,
		members: make(map[SessionID]SignalConnection),
	}
}

func (r *Room) ChatID() domain.ChatID { return r.chatID }

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Join is idempotent; re-joining replaces the stored connection.
func (r *Room) Join(sid SessionID, conn SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[sid] = conn
	log.Debug().Str("module", "core.room").Str("chat", string(r.chatID)).Str("sid", string(sid)).Msg("joined room")
}

func (r *Room) Has(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[sid]
	return ok
}

// Remove drops the session and reports whether the room is now empty.
func (r *Room) Remove(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, sid)
	return len(r.members) == 0
}

// Broadcast fans one frame out to every member except exclude. An empty
// exclude delivers to everyone. Sends that hit backpressure are dropped
// with a log line; delivery has no ordering or atomicity guarantee.
func (r *Room) Broadcast(data Frame, exclude SessionID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sent := 0
	for sid, conn := range r.members {
		if sid == exclude {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "core.room").Str("chat", string(r.chatID)).Str("sid", string(sid)).Msg("dropped frame")
			continue
		}
		sent++
	}
	return sent
}

// BroadcastAll delivers to every member, sender included.
func (r *Room) BroadcastAll(data Frame) int {
	return r.Broadcast(data, "")
}
