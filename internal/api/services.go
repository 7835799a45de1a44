package api

import (
	"github.com/hagigaapp/hagiga-server/internal/service"
	"github.com/hagigaapp/hagiga-server/internal/sse"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth        *service.AuthService
	Event       *service.EventService
	Participant *service.ParticipantService
	Import      *service.ImportService
	Media       *service.MediaService
	Invitation  *service.InvitationService
	Seating     *service.SeatingService
	Search      *service.SearchService

	// Stream is optional; without it the activity stream route is not
	// registered.
	Stream *sse.Handler
}
