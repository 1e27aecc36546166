// Package signal is the websocket adapter for the relay: it owns the
// transport, decodes type-tagged frames and calls into the orchestrator.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultWriteWait = 5 * time.Second
	defaultSendBuf   = 32
)

type Controller struct {
	Orch       *app.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(orch *app.Orchestrator, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Orch:       orch,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

// WsSignalConn implements core.SignalConnection over one websocket.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the connection and, if the handshake carried a
// valid credential, registers it and starts the pumps. An unverified
// caller gets an error event and an immediate close.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, defaultSendBuf),
	}

	user, ok := authedUser(c)
	if !ok {
		ctl.rejectConn(conn, c.GetString("auth_error"))
		return
	}

	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("new WS connection")

	ctl.Orch.Connect(user, sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}

func authedUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// rejectConn emits one error event and tears the socket down. No retry
// is initiated server-side.
func (ctl *Controller) rejectConn(conn *WsSignalConn, reason string) {
	if reason == "" {
		reason = "unauthorized"
	}
	log.Warn().Str("module", "signal").Str("reason", reason).Msg("connection rejected")
	if b, err := json.Marshal(app.NewErrorEvent(reason)); err == nil {
		_ = conn.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait))
		_ = conn.conn.WriteMessage(websocket.TextMessage, b)
	}
	conn.Close()
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway) || errors.Is(err, context.Canceled)
}
