// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry holds the live sessions, keyed by an opaque ID handed to the
// browser. Everything is in-memory: sessions die with the process.
type Registry struct {
	searcher Searcher
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time // overridable in tests
}

type entry struct {
	controller *Controller
	lastAccess time.Time
}

// NewRegistry returns an empty registry whose sessions run lookups
// through searcher.
func NewRegistry(searcher Searcher, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		searcher: searcher,
		logger:   logger,
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Create makes a fresh idle session and returns its ID.
func (r *Registry) Create() string {
	id := uuid.NewString()
	c := NewController(r.searcher, r.logger.With(zap.String("session", id)))

	r.mu.Lock()
	r.sessions[id] = &entry{controller: c, lastAccess: r.now()}
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session", id))
	return id
}

// Get returns the controller for id, refreshing its idle timer. The
// second return is false for unknown or already-purged IDs.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastAccess = r.now()
	return e.controller, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// PurgeIdle drops sessions untouched for longer than maxIdle and
// returns how many were removed. A lookup still in flight for a purged
// session resolves into a controller nothing references anymore.
func (r *Registry) PurgeIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("idle sessions purged", zap.Int("count", removed))
	}
	return removed
}
