package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/domain"
)

func (ctl *Controller) handleRegister(c *wsConn, data []byte) {
	type registerPayload struct {
		Event string `json:"event"`
		Email string `json:"email"`
	}
	var p registerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad register payload")
		return
	}
	if p.Email == "" {
		// deliberate no-op, nothing is signaled back
		log.Debug().Str("module", "signal").Str("conn", string(c.id)).Msg("register without identity ignored")
		return
	}
	ctl.reg.Bind(domain.Identity(p.Email), c.id, c)
}

// handleIsOnline answers a presence query. A client that can await a reply
// sends an ackId and gets an ack frame carrying it; a purely event-driven
// client omits it and gets an isOnlineResponse event instead.
func (ctl *Controller) handleIsOnline(c *wsConn, data []byte) {
	type isOnlinePayload struct {
		Event string `json:"event"`
		Email string `json:"email"`
		AckID *int64 `json:"ackId,omitempty"`
	}
	var p isOnlinePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad isOnline payload")
		return
	}

	online := ctl.reg.IsOnline(domain.Identity(p.Email))

	if p.AckID != nil {
		resp := struct {
			Event  string `json:"event"`
			AckID  int64  `json:"ackId"`
			Email  string `json:"email"`
			Online bool   `json:"online"`
		}{
			Event:  evAck,
			AckID:  *p.AckID,
			Email:  p.Email,
			Online: online,
		}
		ctl.sendJSON(c, resp)
		return
	}

	resp := struct {
		Event  string `json:"event"`
		Email  string `json:"email"`
		Online bool   `json:"online"`
	}{
		Event:  evIsOnlineResponse,
		Email:  p.Email,
		Online: online,
	}
	ctl.sendJSON(c, resp)
}
