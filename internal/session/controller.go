// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/source-scout/internal/generate"
	"github.com/pdiddy/source-scout/pkg/types"
)

// Searcher performs one topic lookup. Implemented by generate.Service;
// tests supply gated mocks to exercise the transition order.
type Searcher interface {
	Lookup(ctx context.Context, topic string) (types.SearchResult, error)
}

// ErrSuperseded is returned by Wait when a newer submit replaced the
// awaited one before it reached a terminal state.
var ErrSuperseded = errors.New("submission superseded by a newer one")

// Controller tracks the request lifecycle for one session. A submit
// moves the state to loading under a fresh sequence number and launches
// the lookup; the resolution applies only while that sequence is still
// current, so a late response from a superseded submit can never
// overwrite a newer result.
type Controller struct {
	searcher Searcher
	logger   *zap.Logger

	mu      sync.Mutex
	state   State
	changed chan struct{} // closed and replaced on every transition
}

// NewController returns an idle controller backed by searcher.
func NewController(searcher Searcher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		searcher: searcher,
		logger:   logger,
		state:    State{Phase: PhaseIdle},
		changed:  make(chan struct{}),
	}
}

// State returns a snapshot of the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit starts a lookup for topic. A blank topic is a no-op: no state
// transition, no call issued, and ok is false. Otherwise the state moves
// to loading under a new sequence number with any prior result or error
// discarded, the lookup runs in the background, and seq identifies the
// submission for Wait.
func (c *Controller) Submit(ctx context.Context, topic string) (seq uint64, ok bool) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return 0, false
	}

	c.mu.Lock()
	seq = c.state.Seq + 1
	c.transitionLocked(State{Phase: PhaseLoading, Seq: seq})
	c.mu.Unlock()

	c.logger.Debug("lookup submitted", zap.Uint64("seq", seq), zap.String("topic", topic))

	go func() {
		result, err := c.searcher.Lookup(ctx, topic)
		c.resolve(seq, result, err)
	}()
	return seq, true
}

// resolve applies the outcome of submission seq, unless a newer submit
// has already taken over the state.
func (c *Controller) resolve(seq uint64, result types.SearchResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Seq != seq || c.state.Phase != PhaseLoading {
		c.logger.Debug("stale lookup response dropped",
			zap.Uint64("seq", seq), zap.Uint64("current", c.state.Seq))
		return
	}

	if err != nil {
		c.transitionLocked(State{Phase: PhaseFailed, Seq: seq, Message: generate.FailureMessage(err)})
		return
	}
	c.transitionLocked(State{Phase: PhaseSucceeded, Seq: seq, Result: &result})
}

// transitionLocked replaces the state and wakes all waiters. Caller
// holds c.mu.
func (c *Controller) transitionLocked(next State) {
	c.state = next
	close(c.changed)
	c.changed = make(chan struct{})
}

// Wait blocks until submission seq reaches a terminal state and returns
// that state. It returns ErrSuperseded when a newer submit replaced seq,
// and ctx.Err() when the context ends first.
func (c *Controller) Wait(ctx context.Context, seq uint64) (State, error) {
	for {
		c.mu.Lock()
		s := c.state
		ch := c.changed
		c.mu.Unlock()

		switch {
		case s.Seq > seq:
			return State{}, ErrSuperseded
		case s.Seq == seq && s.Phase.Terminal():
			return s, nil
		}

		select {
		case <-ctx.Done():
			return State{}, ctx.Err()
		case <-ch:
		}
	}
}
