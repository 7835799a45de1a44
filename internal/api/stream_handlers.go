package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hagigaapp/hagiga-server/internal/http/response"
)

// registerStreamRoutes registers the live activity stream. SSE does not
// fit the enveloped JSON surface, so this is a direct chi route.
func (s *Server) registerStreamRoutes() {
	if s.services.Stream == nil {
		return
	}
	s.router.Get("/api/v1/events/{eventID}/stream", s.handleEventStream)
}

// handleEventStream streams guest-list activity for one event over SSE.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.authenticateRequest(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token", s.logger)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	if _, err := s.services.Event.RequireOwner(ctx, userID, eventID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.services.Stream.ServeEvent(w, r, eventID)
}
