package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	ping := time.NewTicker(ctl.PingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(defaultWriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the per-connection dispatch loop. Events from one
// connection are handled in arrival order; on exit the presence entry
// and room memberships go with it.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.Disconnect(sid)
		cancel()
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.ReadLimit)
	pongWait := ctl.PingPeriod + defaultWriteWait
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if !isExpectedClose(err) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(ctx, sid, c, data)
		}
	}
}

func (ctl *Controller) handleFrame(ctx context.Context, sid core.SessionID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case app.EventConnectToRoom:
		ctl.handleJoinRoom(sid, c, data)
	case app.EventNewMessage:
		ctl.handleNewMessage(sid, c, data)
	case app.EventStartTyping, app.EventStopTyping:
		ctl.handleTyping(sid, c, env.Type, data)
	case app.EventStartNewCall:
		ctl.handleStartCall(ctx, sid, c, data)
	case app.EventAcceptedIncomingCall:
		ctl.handleAcceptedCall(sid, c, data)
	case app.EventCallAccepted:
		ctl.handleCallAccepted(sid, c, data)
	case app.EventNegotiationNeeded:
		ctl.handleNegotiationNeeded(sid, c, data)
	case app.EventNegotiationDone:
		ctl.handleNegotiationDone(sid, c, data)
	case app.EventICECandidate:
		ctl.handleCandidate(ctx, sid, c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) badPayload(c *WsSignalConn, event string, err error) {
	log.Error().Err(err).Str("module", "signal").Str("event", event).Msg("bad payload")
	ctl.sendJSON(c, app.NewErrorEvent("bad_payload"))
}
