package app

import (
	"sync"

	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/rs/zerolog/log"
)

type presenceEntry struct {
	User *domain.User
	Conn core.SignalConnection
}

// Presence tracks the single live connection per user. It is shared by
// every connection's dispatch goroutine, so all access goes through the
// mutex. Nothing here survives a restart.
type Presence struct {
	mu       sync.RWMutex
	byUser   map[domain.UserID]core.SessionID
	sessions map[core.SessionID]*presenceEntry
}

func NewPresence() *Presence {
	return &Presence{
		byUser:   make(map[domain.UserID]core.SessionID),
		sessions: make(map[core.SessionID]*presenceEntry),
	}
}

// Register binds a user to a connection. A second connection for the
// same user unconditionally overwrites the first (last-connect-wins);
// the older session keeps its entry until its own Unregister.
func (p *Presence) Register(user *domain.User, sid core.SessionID, conn core.SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[sid] = &presenceEntry{User: user, Conn: conn}
	p.byUser[user.ID] = sid
	log.Info().Str("module", "app.presence").Str("user", string(user.ID)).Str("sid", string(sid)).Msg("registered")
}

// Unregister removes the session. The user mapping is cleared only if it
// still points at this session, so a newer connection registered in
// between is not clobbered.
func (p *Presence) Unregister(sid core.SessionID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.sessions[sid]
	if !ok {
		return
	}
	if p.byUser[entry.User.ID] == sid {
		delete(p.byUser, entry.User.ID)
	}
	delete(p.sessions, sid)
	log.Info().Str("module", "app.presence").Str("user", string(entry.User.ID)).Str("sid", string(sid)).Msg("unregistered")
}

// Lookup returns the live connection id for a user. Absence is the
// normal offline case, not an error.
func (p *Presence) Lookup(uid domain.UserID) (core.SessionID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sid, ok := p.byUser[uid]
	return sid, ok
}

// Conn resolves a user to their registered connection and its id.
func (p *Presence) Conn(uid domain.UserID) (core.SignalConnection, core.SessionID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sid, ok := p.byUser[uid]
	if !ok {
		return nil, "", false
	}
	entry, ok := p.sessions[sid]
	if !ok {
		return nil, "", false
	}
	return entry.Conn, sid, true
}

// UserOf returns the identity behind a connection.
func (p *Presence) UserOf(sid core.SessionID) (*domain.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.sessions[sid]
	if !ok {
		return nil, false
	}
	return entry.User, true
}

// SessionConn returns the transport for a connection id.
func (p *Presence) SessionConn(sid core.SessionID) (core.SignalConnection, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.sessions[sid]
	if !ok {
		return nil, false
	}
	return entry.Conn, true
}
