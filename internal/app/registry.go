package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/core"
	"github.com/Victor-Maverick/Virtual-Market-app-sub002/internal/domain"
)

type regEntry struct {
	ConnID core.ConnID
	Conn   core.SignalConnection
}

// Registry is the identity→connection map, the only piece of server-side
// state in the signaling subsystem. At most one entry exists per identity;
// a repeated Bind for the same identity overwrites the previous one
// (reconnect or duplicate tab — the newest registration wins). The old
// connection is left open, it just stops being addressable.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.Identity]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[domain.Identity]*regEntry),
	}
}

func (r *Registry) Bind(id domain.Identity, cid core.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[id]; ok && prev.ConnID != cid {
		log.Info().Str("module", "app.registry").Str("identity", string(id)).
			Str("old_conn", string(prev.ConnID)).Str("conn", string(cid)).Msg("rebound identity")
	} else {
		log.Info().Str("module", "app.registry").Str("identity", string(id)).
			Str("conn", string(cid)).Msg("bound identity")
	}
	r.entries[id] = &regEntry{ConnID: cid, Conn: conn}
}

// UnbindConn removes every entry owned by the closing connection. An entry
// superseded by a newer registration belongs to the newer connection and is
// kept. Returns the identities that were removed.
func (r *Registry) UnbindConn(cid core.ConnID) []domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []domain.Identity
	for id, e := range r.entries {
		if e.ConnID == cid {
			delete(r.entries, id)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		log.Info().Str("module", "app.registry").Str("conn", string(cid)).
			Int("count", len(removed)).Msg("unbound identities")
	}
	return removed
}

func (r *Registry) Resolve(id domain.Identity) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// ConnOf reports which connection currently owns an identity.
func (r *Registry) ConnOf(id domain.Identity) (core.ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e.ConnID, true
	}
	return "", false
}

// IsOnline is the presence query: present in the registry means online.
// Liveness beyond that is guaranteed by disconnect cleanup, not re-checked.
func (r *Registry) IsOnline(id domain.Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) Online() []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Identity, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
