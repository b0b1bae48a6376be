// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server provides the HTTP API and the embedded single-page UI.
// See docs/ARCHITECTURE § Server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/source-scout/internal/session"
	"github.com/pdiddy/source-scout/pkg/types"
)

// Server is the HTTP server for the source-scout API.
type Server struct {
	registry *session.Registry
	config   types.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	stopped  chan struct{}
}

// NewServer creates a server with the given dependencies.
func NewServer(registry *session.Registry, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: registry,
		config:   cfg,
		logger:   logger,
		stopped:  make(chan struct{}),
	}
}

// Router assembles the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	r.Post("/api/v1/sessions", s.handleCreateSession)
	r.Post("/api/v1/sessions/{id}/search", s.handleSearch)
	r.Get("/api/v1/sessions/{id}/state", s.handleState)
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	return r
}

// Start starts the HTTP server and blocks until it stops. A background
// ticker purges sessions idle past the configured expiry.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go s.purgeLoop()

	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	close(s.stopped)
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// purgeLoop drops idle sessions once a minute until the server stops.
func (s *Server) purgeLoop() {
	expiry := s.config.SessionIdleExpiry
	if expiry <= 0 {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopped:
			return
		case <-ticker.C:
			s.registry.PurgeIdle(expiry)
		}
	}
}
