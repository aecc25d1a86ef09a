package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/domain"
)

// defaultRejectReason is sent when the rejecting client gives none.
const defaultRejectReason = "rejected"

// handleCallUser routes a call invite. This is the one place the router makes
// a real decision: a resolved callee gets incomingCall, an unresolved one
// bounces calleeUnavailable back to the caller. All later stages of the
// handshake drop silently on a miss; only the invite tells its sender that
// nobody can pick up.
func (ctl *Controller) handleCallUser(c *wsConn, data []byte) {
	type callUserPayload struct {
		Event    string           `json:"event"`
		Email    string           `json:"email"`
		CallType domain.CallKind  `json:"callType"`
		Offer    json.RawMessage  `json:"offer,omitempty"`
		From     domain.PartyInfo `json:"from"`
	}
	var p callUserPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad callUser payload")
		return
	}
	if p.From.Email == "" {
		log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("callUser without caller identity ignored")
		return
	}

	callee, ok := ctl.reg.Resolve(domain.Identity(p.Email))
	if !ok {
		log.Info().Str("module", "signal").Str("caller", p.From.Email).Str("callee", p.Email).Msg("callee unavailable")
		ctl.sendJSON(c, struct {
			Event string `json:"event"`
			Email string `json:"email"`
		}{
			Event: evCalleeUnavailable,
			Email: p.Email,
		})
		return
	}

	log.Info().Str("module", "signal").Str("caller", p.From.Email).Str("callee", p.Email).
		Str("call_type", string(p.CallType)).Msg("routing invite")
	ctl.sendJSON(callee, struct {
		Event    string           `json:"event"`
		From     domain.PartyInfo `json:"from"`
		CallType domain.CallKind  `json:"callType"`
		Offer    json.RawMessage  `json:"offer,omitempty"`
		TS       int64            `json:"ts"`
	}{
		Event:    evIncomingCall,
		From:     p.From,
		CallType: p.CallType,
		Offer:    p.Offer,
		TS:       time.Now().UnixMilli(),
	})
}

func (ctl *Controller) handleAnswerCall(c *wsConn, data []byte) {
	type answerPayload struct {
		Event       string           `json:"event"`
		CallerEmail string           `json:"callerEmail"`
		From        domain.PartyInfo `json:"from"`
		CallType    domain.CallKind  `json:"callType"`
		Answer      json.RawMessage  `json:"answer,omitempty"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad answerCall payload")
		return
	}

	caller, ok := ctl.reg.Resolve(domain.Identity(p.CallerEmail))
	if !ok {
		// caller dropped between invite and accept: fire-and-forget, no error back
		log.Debug().Str("module", "signal").Str("caller", p.CallerEmail).Msg("answerCall dropped, caller gone")
		return
	}

	ctl.sendJSON(caller, struct {
		Event    string           `json:"event"`
		By       domain.PartyInfo `json:"by"`
		CallType domain.CallKind  `json:"callType"`
		Answer   json.RawMessage  `json:"answer,omitempty"`
		TS       int64            `json:"ts"`
	}{
		Event:    evCallAccepted,
		By:       p.From,
		CallType: p.CallType,
		Answer:   p.Answer,
		TS:       time.Now().UnixMilli(),
	})
}

func (ctl *Controller) handleRejectCall(c *wsConn, data []byte) {
	type rejectPayload struct {
		Event       string           `json:"event"`
		CallerEmail string           `json:"callerEmail"`
		From        domain.PartyInfo `json:"from"`
		Reason      string           `json:"reason,omitempty"`
	}
	var p rejectPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rejectCall payload")
		return
	}
	if p.Reason == "" {
		p.Reason = defaultRejectReason
	}

	caller, ok := ctl.reg.Resolve(domain.Identity(p.CallerEmail))
	if !ok {
		log.Debug().Str("module", "signal").Str("caller", p.CallerEmail).Msg("rejectCall dropped, caller gone")
		return
	}

	ctl.sendJSON(caller, struct {
		Event  string           `json:"event"`
		By     domain.PartyInfo `json:"by"`
		Reason string           `json:"reason"`
		TS     int64            `json:"ts"`
	}{
		Event:  evCallRejected,
		By:     p.From,
		Reason: p.Reason,
		TS:     time.Now().UnixMilli(),
	})
}

func (ctl *Controller) handleEndCall(c *wsConn, data []byte) {
	type endPayload struct {
		Event      string           `json:"event"`
		OtherEmail string           `json:"otherEmail"`
		By         domain.PartyInfo `json:"by"`
	}
	var p endPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad endCall payload")
		return
	}

	other, ok := ctl.reg.Resolve(domain.Identity(p.OtherEmail))
	if !ok {
		log.Debug().Str("module", "signal").Str("other", p.OtherEmail).Msg("endCall dropped, other party gone")
		return
	}

	ctl.sendJSON(other, struct {
		Event string           `json:"event"`
		By    domain.PartyInfo `json:"by"`
		TS    int64            `json:"ts"`
	}{
		Event: evCallEnded,
		By:    p.By,
		TS:    time.Now().UnixMilli(),
	})
}
