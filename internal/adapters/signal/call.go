package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/Chatter/internal/app"
	"github.com/dkeye/Chatter/internal/core"
	"github.com/dkeye/Chatter/internal/domain"
	"github.com/pion/webrtc/v4"
)

func (ctl *Controller) handleStartCall(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type startPayload struct {
		Type  string                    `json:"type"`
		Room  app.CallRoom              `json:"room"`
		Offer webrtc.SessionDescription `json:"offer"`
	}
	var p startPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventStartNewCall, err)
		return
	}
	ctl.Orch.StartCall(ctx, sid, p.Room, p.Offer)
}

func (ctl *Controller) handleAcceptedCall(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type acceptPayload struct {
		Type  string                    `json:"type"`
		Room  app.CallRoom              `json:"room"`
		Offer webrtc.SessionDescription `json:"offer"`
	}
	var p acceptPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventAcceptedIncomingCall, err)
		return
	}
	ctl.Orch.AcceptIncomingCall(sid, p.Room, p.Offer)
}

func (ctl *Controller) handleCallAccepted(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type answerPayload struct {
		Type   string                    `json:"type"`
		Room   app.CallRoom              `json:"room"`
		Answer webrtc.SessionDescription `json:"answer"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventCallAccepted, err)
		return
	}
	ctl.Orch.CallAccepted(sid, p.Room, p.Answer)
}

func (ctl *Controller) handleNegotiationNeeded(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type negoPayload struct {
		Type      string                    `json:"type"`
		Room      app.CallRoom              `json:"room"`
		OfferNego webrtc.SessionDescription `json:"offerNego"`
	}
	var p negoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventNegotiationNeeded, err)
		return
	}
	ctl.Orch.NegotiationNeeded(sid, p.Room, p.OfferNego)
}

func (ctl *Controller) handleNegotiationDone(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type donePayload struct {
		Type   string                    `json:"type"`
		Room   app.CallRoom              `json:"room"`
		Answer webrtc.SessionDescription `json:"answer"`
	}
	var p donePayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventNegotiationDone, err)
		return
	}
	ctl.Orch.NegotiationDone(sid, p.Room, p.Answer)
}

func (ctl *Controller) handleCandidate(
	ctx context.Context,
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type candidatePayload struct {
		Type      string                  `json:"type"`
		Room      app.CallRoom            `json:"room"`
		Candidate webrtc.ICECandidateInit `json:"candidate"`
		UserID    domain.UserID           `json:"userId"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, app.EventICECandidate, err)
		return
	}
	ctl.Orch.RelayICECandidate(ctx, sid, p.Room, p.Candidate, p.UserID)
}
