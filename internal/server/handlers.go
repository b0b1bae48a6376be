// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pdiddy/source-scout/internal/session"
)

//go:embed web/index.html
var webFS embed.FS

// searchRequest is the body of POST /api/v1/sessions/{id}/search.
type searchRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.registry.Create()
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The lookup must outlive this handler if the client disconnects,
	// so it does not run under r.Context().
	seq, ok := ctrl.Submit(context.Background(), req.Topic)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "topic must not be empty")
		return
	}
	s.logger.Debug("search request", zap.String("topic", req.Topic), zap.Uint64("seq", seq))

	state, err := ctrl.Wait(r.Context(), seq)
	if err != nil {
		if errors.Is(err, session.ErrSuperseded) {
			s.respondError(w, http.StatusConflict, "superseded by a newer search")
			return
		}
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, ctrl.State())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
