package app

import (
	"sync"

	"github.com/dkeye/Chatter/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// CallState tracks where a chat's negotiation stands. A chat with no
// record is idle. There is no terminal "ended" state: a record stays
// until the next start-new-call for the same chat overwrites it.
type CallState string

const (
	CallOffered     CallState = "offered"
	CallAccepted    CallState = "accepted"
	CallNegotiating CallState = "negotiating"
	CallNegotiated  CallState = "negotiated"
)

// CallRoom is the room object clients pass through signaling events.
// It is relayed back to peers as received.
type CallRoom struct {
	ChatID   domain.ChatID `json:"chatId"`
	Name     string        `json:"name,omitempty"`
	HostUser domain.UserID `json:"hostUser,omitempty"`
}

// Negotiation is the per-chat call record: the current offer plus a
// snapshot of the chat's member list taken at call start. Later
// membership changes do not affect an in-flight call.
type Negotiation struct {
	Room     CallRoom
	Offer    webrtc.SessionDescription
	RoomName string
	Members  []domain.UserID
	State    CallState
}

// CallTable holds at most one Negotiation per chat. Writes are
// last-writer-wins with no conflict detection: two members starting a
// call concurrently race, and the second write silently replaces the
// first.
type CallTable struct {
	mu     sync.Mutex
	byChat map[domain.ChatID]*Negotiation
}

func NewCallTable() *CallTable {
	return &CallTable{byChat: make(map[domain.ChatID]*Negotiation)}
}

// Start creates or overwrites the record for a chat.
func (t *CallTable) Start(room CallRoom, offer webrtc.SessionDescription, roomName string, members []domain.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byChat[room.ChatID] = &Negotiation{
		Room:     room,
		Offer:    offer,
		RoomName: roomName,
		Members:  append([]domain.UserID(nil), members...),
		State:    CallOffered,
	}
	log.Info().Str("module", "app.calls").Str("chat", string(room.ChatID)).Int("members", len(members)).Msg("call started")
}

// Get returns a copy of the record; mutating it does not touch the table.
func (t *CallTable) Get(chatID domain.ChatID) (Negotiation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	neg, ok := t.byChat[chatID]
	if !ok {
		return Negotiation{}, false
	}
	cp := *neg
	cp.Members = append([]domain.UserID(nil), neg.Members...)
	return cp, true
}

// SetState advances the record if it exists.
func (t *CallTable) SetState(chatID domain.ChatID, state CallState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	neg, ok := t.byChat[chatID]
	if !ok {
		return false
	}
	neg.State = state
	return true
}

// Renegotiate replaces the stored offer, keeping the member snapshot.
func (t *CallTable) Renegotiate(chatID domain.ChatID, offer webrtc.SessionDescription) (Negotiation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	neg, ok := t.byChat[chatID]
	if !ok {
		return Negotiation{}, false
	}
	neg.Offer = offer
	neg.State = CallNegotiating
	cp := *neg
	cp.Members = append([]domain.UserID(nil), neg.Members...)
	return cp, true
}

func (t *CallTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byChat)
}
