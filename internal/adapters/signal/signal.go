package signal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/app"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/config"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the signaling endpoint: it upgrades connections, pumps
// frames, and routes call events through the registry. It keeps no per-call
// state; every inbound event is resolved against the registry as it arrives.
type Controller struct {
	cfg *config.Config
	reg *app.Registry
}

func NewController(cfg *config.Config, reg *app.Registry) *Controller {
	return &Controller{cfg: cfg, reg: reg}
}

type wsConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
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

func (ctl *Controller) checkOrigin(r *http.Request) bool {
	if ctl.cfg.AllowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// non-browser clients send no Origin
		return true
	}
	return strings.TrimSuffix(origin, "/") == strings.TrimSuffix(ctl.cfg.AllowedOrigin, "/")
}

// Handler returns the http.Handler mounted on the signaling path. ctx is the
// process context; closing it stops the pumps of every connection.
func (ctl *Controller) Handler(ctx context.Context) http.Handler {
	upgrader := websocket.Upgrader{CheckOrigin: ctl.checkOrigin}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
			return
		}
		if ctl.cfg.ReadLimit > 0 {
			ws.SetReadLimit(ctl.cfg.ReadLimit)
		}

		conn := &wsConn{
			id:   core.ConnID(uuid.NewString()),
			conn: ws,
			send: make(chan core.Frame, ctl.cfg.SendBuffer),
		}
		log.Info().Str("module", "signal").Str("conn", string(conn.id)).Msg("new WS connection")

		connCtx, cancel := context.WithCancel(ctx)
		go ctl.writePump(connCtx, conn)
		go func() {
			defer cancel()
			ctl.readPump(connCtx, conn)
		}()
	})
}
