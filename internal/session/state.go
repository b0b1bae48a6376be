// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the per-session request lifecycle: a single
// view-state value stepping through idle, loading, and terminal phases,
// plus the in-memory registry of live sessions.
// See docs/ARCHITECTURE § Session.
package session

import "github.com/pdiddy/source-scout/pkg/types"

// Phase identifies which variant of the request state is active.
type Phase string

const (
	// PhaseIdle means no lookup has been submitted yet.
	PhaseIdle Phase = "idle"

	// PhaseLoading means a lookup is in flight.
	PhaseLoading Phase = "loading"

	// PhaseSucceeded means the last lookup resolved with a result.
	PhaseSucceeded Phase = "succeeded"

	// PhaseFailed means the last lookup resolved with an error.
	PhaseFailed Phase = "failed"
)

// Terminal reports whether the phase is an end state a new submit can
// start from.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// State is a snapshot of the request lifecycle. Exactly one variant is
// active: Result is set only in PhaseSucceeded, Message only in
// PhaseFailed. Seq identifies which submission the snapshot belongs to;
// it increases by one per accepted submit and is 0 only while idle.
type State struct {
	Phase   Phase               `json:"phase" yaml:"phase"`
	Seq     uint64              `json:"seq" yaml:"seq"`
	Result  *types.SearchResult `json:"result,omitempty" yaml:"result,omitempty"`
	Message string              `json:"message,omitempty" yaml:"message,omitempty"`
}
