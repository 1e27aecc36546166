package app

import (
	"sync"

	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
)

// RoomManager owns the broadcast groups. Rooms appear on first join and
// disappear when their last connection drops; there is no client-facing
// leave in the protocol.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[domain.ChatID]*core.Room
}

func NewRoomManager() *RoomManager {
	return &RoomManager{rooms: make(map[domain.ChatID]*core.Room)}
}

func (m *RoomManager) GetOrCreate(chatID domain.ChatID) *core.Room {
	m.mu.RLock()
	room, ok := m.rooms[chatID]
	m.mu.RUnlock()
	if ok {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[chatID]; ok {
		return room
	}
	room = core.NewRoom(chatID)
	m.rooms[chatID] = room
	return room
}

func (m *RoomManager) Get(chatID domain.ChatID) (*core.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[chatID]
	return room, ok
}

func (m *RoomManager) Join(chatID domain.ChatID, sid core.SessionID, conn core.SignalConnection) {
	m.GetOrCreate(chatID).Join(sid, conn)
}

// Broadcast delivers to the room's members except exclude. A missing
// room means nobody is viewing the chat; that is not an error.
func (m *RoomManager) Broadcast(chatID domain.ChatID, data core.Frame, exclude core.SessionID) int {
	room, ok := m.Get(chatID)
	if !ok {
		return 0
	}
	return room.Broadcast(data, exclude)
}

func (m *RoomManager) BroadcastAll(chatID domain.ChatID, data core.Frame) int {
	room, ok := m.Get(chatID)
	if !ok {
		return 0
	}
	return room.BroadcastAll(data)
}

// DropSession removes the connection from every room it joined,
// mirroring the transport's leave-on-disconnect. Emptied rooms are
// deleted.
func (m *RoomManager) DropSession(sid core.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for chatID, room := range m.rooms {
		if !room.Has(sid) {
			continue
		}
		if empty := room.Remove(sid); empty {
			delete(m.rooms, chatID)
		}
	}
}

func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
