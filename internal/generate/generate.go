// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate wraps the external generation API behind a single
// search-grounded lookup call.
// See docs/ARCHITECTURE § Generation.
package generate

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/source-scout/internal/prompt"
	"github.com/pdiddy/source-scout/pkg/types"
)

// Backend performs one grounded generation exchange. Each implementation
// (Gemini, test mocks) handles a rendered prompt and returns the answer
// text plus citations, per the Strategy pattern.
type Backend interface {
	Name() string
	Generate(ctx context.Context, promptText string) (types.SearchResult, error)
}

// ErrEmptyTopic is returned by Service.Lookup for blank topics. Callers
// that validate before calling never see it.
var ErrEmptyTopic = errors.New("topic is empty")

// genericFailure is the message used when a backend error carries no
// message of its own.
const genericFailure = "generation request failed"

// Service ties the prompt builder to a backend: one Lookup call renders
// the instruction and issues exactly one backend call. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	backend Backend
	builder prompt.Builder
}

// NewService returns a Service using the given backend and prompt settings.
func NewService(backend Backend, builder prompt.Builder) *Service {
	return &Service{backend: backend, builder: builder}
}

// Lookup trims topic, renders the lookup prompt, and issues one backend
// call. A blank topic returns ErrEmptyTopic without touching the backend.
func (s *Service) Lookup(ctx context.Context, topic string) (types.SearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return types.SearchResult{}, ErrEmptyTopic
	}
	return s.backend.Generate(ctx, s.builder.Build(topic))
}

// FailureMessage converts a backend error into the message shown to the
// user: the error's own text when it has any, otherwise a generic phrase.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return genericFailure
}
