package core

import "errors"

var (
	// ErrBackpressure means the recipient's send buffer is full; the
	// frame is dropped, never queued.
	ErrBackpressure = errors.New("backpressure")
	// ErrConnClosed means the transport is already gone.
	ErrConnClosed = errors.New("connection closed")
)

// Frame is a marshaled wire event, opaque to the fanout layer.
type Frame []byte

// SessionID identifies one live connection. A user reconnecting gets a
// new SessionID; the old one becomes stale.
type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
