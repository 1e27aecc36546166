package app

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Wire event names. Frames are JSON objects tagged with a "type" field;
// every tag has a fixed payload shape.
const (
	EventConnectToRoom        = "connect-to-room"
	EventNewMessage           = "new-message"
	EventNewMessageAlert      = "new-message-alert"
	EventStartTyping          = "start-typing"
	EventStopTyping           = "stop-typing"
	EventStartNewCall         = "start-new-call"
	EventIncomingCall         = "incoming-call"
	EventAcceptedIncomingCall = "accepted-incoming-call"
	EventCallAccepted         = "call-accepted"
	EventNegotiationNeeded    = "rtc-negotiation-needed"
	EventNegotiation          = "rtc-negotiation"
	EventNegotiationDone      = "rtc-negotiation-done"
	EventFinalNegotiation     = "rtc-final-negotiation"
	EventICECandidate         = "ice-candidate"
	EventReceiveICECandidate  = "receive-ice-candidate"
	EventError                = "error"
)

type newMessageEvent struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

type messageAlertEvent struct {
	Type   string        `json:"type"`
	ChatID domain.ChatID `json:"chatId"`
}

type typingEvent struct {
	Type    string          `json:"type"`
	ChatID  domain.ChatID   `json:"chatId"`
	Members []domain.UserID `json:"members"`
}

type offerEvent struct {
	Type  string                    `json:"type"`
	Room  CallRoom                  `json:"room"`
	Offer webrtc.SessionDescription `json:"offer"`
}

type answerEvent struct {
	Type   string                    `json:"type"`
	Room   CallRoom                  `json:"room"`
	Answer webrtc.SessionDescription `json:"answer"`
}

type candidateEvent struct {
	Type      string                  `json:"type"`
	Room      CallRoom                `json:"room"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
	UserID    domain.UserID           `json:"userId"`
}

// ErrorEvent is sent to a client before the server closes a rejected
// connection.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: EventError, Error: msg}
}

// encodeFrame marshals an outbound event once so fanout shares a single
// buffer across recipients.
func encodeFrame(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return core.Frame(b), nil
}
