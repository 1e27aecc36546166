package app

import (
	"sync"
	"testing"

	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) Frames() []core.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func testUser(id string) *domain.User {
	return &domain.User{ID: domain.UserID(id), Username: id, Name: "User " + id}
}

func TestPresence_LastConnectWins(t *testing.T) {
	p := NewPresence()
	alice := testUser("alice")

	p.Register(alice, "conn-1", &fakeConn{})
	p.Register(alice, "conn-2", &fakeConn{})

	sid, ok := p.Lookup(alice.ID)
	require.True(t, ok)
	assert.Equal(t, core.SessionID("conn-2"), sid)
}

func TestPresence_UnregisterOnlyOwnEntry(t *testing.T) {
	p := NewPresence()
	alice := testUser("alice")

	p.Register(alice, "conn-1", &fakeConn{})
	// Reconnect arrives before the old connection's teardown runs.
	p.Register(alice, "conn-2", &fakeConn{})
	p.Unregister("conn-1")

	sid, ok := p.Lookup(alice.ID)
	require.True(t, ok, "newer connection must survive the stale unregister")
	assert.Equal(t, core.SessionID("conn-2"), sid)

	p.Unregister("conn-2")
	_, ok = p.Lookup(alice.ID)
	assert.False(t, ok)
}

func TestPresence_LookupOffline(t *testing.T) {
	p := NewPresence()

	_, ok := p.Lookup("nobody")
	assert.False(t, ok, "offline lookup is a normal miss, not an error")

	_, _, ok = p.Conn("nobody")
	assert.False(t, ok)
}

func TestPresence_UserOf(t *testing.T) {
	p := NewPresence()
	bob := testUser("bob")
	p.Register(bob, "conn-1", &fakeConn{})

	got, ok := p.UserOf("conn-1")
	require.True(t, ok)
	assert.Equal(t, bob.ID, got.ID)
	assert.Equal(t, "bob", got.Username)

	_, ok = p.UserOf("conn-9")
	assert.False(t, ok)
}
