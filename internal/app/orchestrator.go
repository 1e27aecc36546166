package app

import (
	"context"
	"errors"

	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// ChatDirectory resolves a chat to its display name and persisted member
// list. A miss aborts the triggering operation silently; signaling is a
// best-effort notification path.
type ChatDirectory interface {
	ChatMembers(ctx context.Context, chatID domain.ChatID) (*domain.Chat, error)
}

// MessageStore is the durable write target for relayed messages. The
// relay never waits on it.
type MessageStore interface {
	Save(ctx context.Context, msg *domain.Message) error
}

// Orchestrator wires presence, rooms and call state together and owns
// all relay semantics. Adapters decode frames and call in; everything
// here is non-blocking in-memory work except directory lookups and the
// fire-and-forget persistence goroutine.
type Orchestrator struct {
	Presence  *Presence
	Rooms     *RoomManager
	Calls     *CallTable
	Directory ChatDirectory
	Store     MessageStore
}

// Connect registers an authenticated connection. A user connecting twice
// keeps only the newest presence entry.
func (o *Orchestrator) Connect(user *domain.User, sid core.SessionID, conn core.SignalConnection) {
	o.Presence.Register(user, sid, conn)
}

// Disconnect clears the presence entry (unless a newer connection took
// it over) and drops the session from every joined room.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	o.Presence.Unregister(sid)
	o.Rooms.DropSession(sid)
}

// JoinRoom adds the connection to a chat's broadcast group. Any
// connection may join any room it names; membership is client-driven.
func (o *Orchestrator) JoinRoom(sid core.SessionID, chatID domain.ChatID) {
	conn, ok := o.Presence.SessionConn(sid)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("sid", string(sid)).Msg("join from unknown session")
		return
	}
	o.Rooms.Join(chatID, sid, conn)
}

// SendMessage relays a chat message: full envelope to everyone viewing
// the room (sender included), a lightweight alert to every online member
// of the chat, then an async durable write. Relay is synchronous with
// the request; persistence may finish later or never.
func (o *Orchestrator) SendMessage(sid core.SessionID, chatID domain.ChatID, members []domain.UserID, content string) *domain.Message {
	sender, ok := o.Presence.UserOf(sid)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("sid", string(sid)).Msg("message from unknown session")
		return nil
	}
	msg := domain.NewMessage(sender, chatID, content)

	frame, err := encodeFrame(newMessageEvent{Type: EventNewMessage, Message: msg})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode new-message")
		return nil
	}
	sent := o.Rooms.BroadcastAll(chatID, frame)

	alert, err := encodeFrame(messageAlertEvent{Type: EventNewMessageAlert, ChatID: chatID})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode new-message-alert")
		return msg
	}
	alerted := 0
	for _, uid := range members {
		conn, _, online := o.Presence.Conn(uid)
		if !online {
			continue
		}
		if err := conn.TrySend(alert); err != nil {
			log.Warn().Err(err).Str("module", "app.orch").Str("user", string(uid)).Msg("dropped alert")
			continue
		}
		alerted++
	}
	log.Debug().Str("module", "app.orch").Str("chat", string(chatID)).Int("viewers", sent).Int("alerted", alerted).Msg("message relayed")

	// Persist off the request path. The write may land after the sender
	// disconnects; failure is logged and swallowed.
	go func() {
		if err := o.Store.Save(context.Background(), msg); err != nil {
			log.Error().Err(err).Str("module", "app.orch").Str("chat", string(chatID)).Msg("message persist failed")
		}
	}()
	return msg
}

// Typing rebroadcasts a start/stop typing signal to the room, excluding
// the sender. No persistence, no dedup: repeated starts repeat.
func (o *Orchestrator) Typing(sid core.SessionID, event string, chatID domain.ChatID, members []domain.UserID) {
	frame, err := encodeFrame(typingEvent{Type: event, ChatID: chatID, Members: members})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode typing")
		return
	}
	o.Rooms.Broadcast(chatID, frame, sid)
}

// StartCall resolves the chat fresh, snapshots its members into a new
// Negotiation (overwriting any prior call for the chat), and pushes
// incoming-call to every member's live connection except the initiator.
func (o *Orchestrator) StartCall(ctx context.Context, sid core.SessionID, room CallRoom, offer webrtc.SessionDescription) {
	chat, err := o.Directory.ChatMembers(ctx, room.ChatID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("start-call: chat not resolved")
		return
	}
	o.Calls.Start(room, offer, chat.Name, chat.Members)

	frame, err := encodeFrame(offerEvent{Type: EventIncomingCall, Room: room, Offer: offer})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode incoming-call")
		return
	}
	o.relayToMembers(chat.Members, sid, frame, EventIncomingCall)
}

// AcceptIncomingCall relays the accept to the call's member snapshot.
// Without a record there is nothing to recover; drop and log.
func (o *Orchestrator) AcceptIncomingCall(sid core.SessionID, room CallRoom, offer webrtc.SessionDescription) {
	neg, ok := o.Calls.Get(room.ChatID)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("accept: no negotiation record")
		return
	}
	frame, err := encodeFrame(offerEvent{Type: EventAcceptedIncomingCall, Room: room, Offer: offer})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode accepted-incoming-call")
		return
	}
	o.relayToMembers(neg.Members, sid, frame, EventAcceptedIncomingCall)
}

// CallAccepted relays the answer to every member connection; there is no
// targeted peer addressing in this protocol.
func (o *Orchestrator) CallAccepted(sid core.SessionID, room CallRoom, answer webrtc.SessionDescription) {
	neg, ok := o.Calls.Get(room.ChatID)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("call-accepted: no negotiation record")
		return
	}
	o.Calls.SetState(room.ChatID, CallAccepted)
	frame, err := encodeFrame(answerEvent{Type: EventCallAccepted, Room: room, Answer: answer})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode call-accepted")
		return
	}
	o.relayToMembers(neg.Members, sid, frame, EventCallAccepted)
}

// NegotiationNeeded swaps the stored offer for the renegotiation offer
// and relays it. The prior offer is gone; no versioning.
func (o *Orchestrator) NegotiationNeeded(sid core.SessionID, room CallRoom, offerNego webrtc.SessionDescription) {
	neg, ok := o.Calls.Renegotiate(room.ChatID, offerNego)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("negotiation-needed: no negotiation record")
		return
	}
	frame, err := encodeFrame(offerEvent{Type: EventNegotiation, Room: room, Offer: offerNego})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode rtc-negotiation")
		return
	}
	o.relayToMembers(neg.Members, sid, frame, EventNegotiation)
}

// NegotiationDone relays the final answer to the member snapshot.
func (o *Orchestrator) NegotiationDone(sid core.SessionID, room CallRoom, answer webrtc.SessionDescription) {
	neg, ok := o.Calls.Get(room.ChatID)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("negotiation-done: no negotiation record")
		return
	}
	o.Calls.SetState(room.ChatID, CallNegotiated)
	frame, err := encodeFrame(answerEvent{Type: EventFinalNegotiation, Room: room, Answer: answer})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode rtc-final-negotiation")
		return
	}
	o.relayToMembers(neg.Members, sid, frame, EventFinalNegotiation)
}

// RelayICECandidate resolves the chat fresh and fans the candidate out
// to every member connection. The source protocol broadcasts candidates
// instead of targeting the one peer they are meant for; we reproduce
// that fanout byte-for-byte rather than guess at the intended addressing.
func (o *Orchestrator) RelayICECandidate(ctx context.Context, sid core.SessionID, room CallRoom, candidate webrtc.ICECandidateInit, from domain.UserID) {
	chat, err := o.Directory.ChatMembers(ctx, room.ChatID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("chat", string(room.ChatID)).Msg("ice-candidate: chat not resolved")
		return
	}
	frame, err := encodeFrame(candidateEvent{Type: EventReceiveICECandidate, Room: room, Candidate: candidate, UserID: from})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Msg("encode receive-ice-candidate")
		return
	}
	o.relayToMembers(chat.Members, sid, frame, EventReceiveICECandidate)
}

// relayToMembers pushes a frame to each member's registered connection,
// skipping offline members and the sending session. Offline is normal;
// there is no store-and-forward.
func (o *Orchestrator) relayToMembers(members []domain.UserID, from core.SessionID, frame core.Frame, event string) int {
	sent := 0
	for _, uid := range members {
		conn, sid, online := o.Presence.Conn(uid)
		if !online || sid == from {
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			if !errors.Is(err, core.ErrConnClosed) {
				log.Warn().Err(err).Str("module", "app.orch").Str("event", event).Str("user", string(uid)).Msg("dropped relay frame")
			}
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.orch").Str("event", event).Int("sent_to", sent).Msg("relay fanout")
	return sent
}
