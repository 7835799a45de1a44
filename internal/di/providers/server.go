package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/api"
	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/service"
	"github.com/hagigaapp/hagiga-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	authService := do.MustInvoke[*service.AuthService](i)
	eventService := do.MustInvoke[*service.EventService](i)
	participantService := do.MustInvoke[*service.ParticipantService](i)
	importService := do.MustInvoke[*service.ImportService](i)
	mediaService := do.MustInvoke[*service.MediaService](i)
	invitationService := do.MustInvoke[*service.InvitationService](i)
	seatingService := do.MustInvoke[*service.SeatingService](i)
	searchService := do.MustInvoke[*service.SearchService](i)

	// Keep the search index in step with guest list changes.
	eventService.SetGuestIndexer(searchService)
	participantService.SetGuestIndexer(searchService)
	importService.SetGuestIndexer(searchService)

	// Feed the live activity stream.
	broadcaster := sse.NewBroadcaster(sseHandle.Manager)
	participantService.SetActivityBroadcaster(broadcaster)
	importService.SetActivityBroadcaster(broadcaster)

	services := &api.Services{
		Auth:        authService,
		Event:       eventService,
		Participant: participantService,
		Import:      importService,
		Media:       mediaService,
		Invitation:  invitationService,
		Seating:     seatingService,
		Search:      searchService,
		Stream:      sse.NewHandler(sseHandle.Manager, log.Logger),
	}

	handler := api.NewServer(services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
