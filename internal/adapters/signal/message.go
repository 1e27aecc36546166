package signal

import (
	"encoding/json"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) handleJoinRoom(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string        `json:"type"`
		ChatID domain.ChatID `json:"chatId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventConnectToRoom, err)
		return
	}
	if p.ChatID == "" {
		ctl.sendJSON(conn, app.NewErrorEvent("empty chatId"))
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("chat", string(p.ChatID)).Msg("join room")
	ctl.Orch.JoinRoom(sid, p.ChatID)
}

func (ctl *Controller) handleNewMessage(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type messagePayload struct {
		Type    string          `json:"type"`
		ChatID  domain.ChatID   `json:"chatId"`
		Members []domain.UserID `json:"members"`
		Message string          `json:"message"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventNewMessage, err)
		return
	}
	if p.ChatID == "" {
		ctl.sendJSON(conn, app.NewErrorEvent("empty chatId"))
		return
	}

	ctl.Orch.SendMessage(sid, p.ChatID, p.Members, p.Message)
}

func (ctl *Controller) handleTyping(
	sid core.SessionID,
	conn *WsSignalConn,
	event string,
	data []byte,
) {
	type typingPayload struct {
		Type    string          `json:"type"`
		ChatID  domain.ChatID   `json:"chatId"`
		Members []domain.UserID `json:"members"`
	}
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, event, err)
		return
	}

	log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("chat", string(p.ChatID)).Str("event", event).Msg("typing")
	ctl.Orch.Typing(sid, event, p.ChatID, p.Members)
}
