package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
)

// Guard starts the signaling listener at most once per process. The bootstrap
// endpoint may be hit any number of times; only the first call binds the port.
// The check-and-set is done under a mutex so two racing first calls cannot
// double-initialize.
type Guard struct {
	mu      sync.Mutex
	port    int
	path    string
	handler http.Handler

	srv  *http.Server
	addr net.Addr
}

func NewGuard(port int, path string, handler http.Handler) *Guard {
	return &Guard{port: port, path: path, handler: handler}
}

// Ensure starts the listener if it is not running yet. It reports whether
// this call did the start. A bind failure (port taken by another process) is
// a configuration error: it is logged and returned, and nothing is retried.
func (g *Guard) Ensure() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.srv != nil {
		log.Info().Str("module", "app.guard").Stringer("addr", g.addr).Msg("signaling server already running")
		return false, nil
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		log.Error().Err(err).Str("module", "app.guard").Int("port", g.port).Msg("signaling listen failed")
		return false, err
	}

	mux := http.NewServeMux()
	mux.Handle(g.path, g.handler)
	g.srv = &http.Server{Handler: mux}
	g.addr = ln.Addr()

	go func() {
		if err := g.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Str("module", "app.guard").Msg("signaling server error")
		}
	}()

	log.Info().Str("module", "app.guard").Stringer("addr", g.addr).Str("path", g.path).Msg("signaling server started")
	return true, nil
}

func (g *Guard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.srv != nil
}

// Addr returns the bound address, nil when the listener has not started.
func (g *Guard) Addr() net.Addr {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addr
}

func (g *Guard) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	srv := g.srv
	g.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
