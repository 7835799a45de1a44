package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

func (s *Server) registerEventRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/events",
		Summary:     "Create event",
		Description: "Creates an event owned by the authenticated user",
		Tags:        []string{"Events"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "listEvents",
		Method:      http.MethodGet,
		Path:        "/api/v1/events",
		Summary:     "List events",
		Description: "Returns all events the authenticated user owns",
		Tags:        []string{"Events"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "getEvent",
		Method:      http.MethodGet,
		Path:        "/api/v1/events/{eventID}",
		Summary:     "Get event",
		Description: "Returns an event by ID",
		Tags:        []string{"Events"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateEvent",
		Method:      http.MethodPatch,
		Path:        "/api/v1/events/{eventID}",
		Summary:     "Update event",
		Description: "Applies partial changes to an event",
		Tags:        []string{"Events"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateEvent)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteEvent",
		Method:      http.MethodDelete,
		Path:        "/api/v1/events/{eventID}",
		Summary:     "Delete event",
		Description: "Deletes an event and everything attached to it",
		Tags:        []string{"Events"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteEvent)
}

// === DTOs ===

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	Title       string                `json:"title" validate:"required,max=200" doc:"Event title"`
	Type        string                `json:"type" validate:"required" doc:"Event type: wedding, party, corporate, or other"`
	Date        time.Time             `json:"date" validate:"required" doc:"Event date"`
	Venue       string                `json:"venue,omitempty" validate:"omitempty,max=200" doc:"Venue name"`
	Description string                `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Free-form description"`
	Settings    *domain.EventSettings `json:"settings,omitempty" doc:"Per-event behavior settings"`
}

// CreateEventInput wraps the create event request for Huma.
type CreateEventInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateEventRequest
}

// UpdateEventRequest is the request body for updating an event.
type UpdateEventRequest struct {
	Title       *string               `json:"title,omitempty" doc:"Event title"`
	Type        *string               `json:"type,omitempty" doc:"Event type"`
	Date        *time.Time            `json:"date,omitempty" doc:"Event date"`
	Venue       *string               `json:"venue,omitempty" doc:"Venue name"`
	Description *string               `json:"description,omitempty" doc:"Free-form description"`
	Settings    *domain.EventSettings `json:"settings,omitempty" doc:"Per-event behavior settings"`
}

// UpdateEventInput wraps the update event request for Huma.
type UpdateEventInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
	Body          UpdateEventRequest
}

// EventInput contains parameters for event-scoped requests.
type EventInput struct {
	Authorization string `header:"Authorization"`
	EventID       string `path:"eventID" doc:"Event ID"`
}

// EventOutput wraps a single event for Huma.
type EventOutput struct {
	Body *domain.Event
}

// ListEventsInput contains parameters for listing events.
type ListEventsInput struct {
	Authorization string `header:"Authorization"`
}

// ListEventsResponse contains the user's events.
type ListEventsResponse struct {
	Events []*domain.Event `json:"events" doc:"Events owned by the user"`
}

// ListEventsOutput wraps the list events response for Huma.
type ListEventsOutput struct {
	Body ListEventsResponse
}

// === Handlers ===

func (s *Server) handleCreateEvent(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.CreateEventRequest{
		Title:       input.Body.Title,
		Type:        domain.EventType(input.Body.Type),
		Date:        input.Body.Date,
		Venue:       input.Body.Venue,
		Description: input.Body.Description,
	}
	if input.Body.Settings != nil {
		req.Settings = *input.Body.Settings
	}

	event, err := s.services.Event.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: event}, nil
}

func (s *Server) handleListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	events, err := s.services.Event.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListEventsOutput{Body: ListEventsResponse{Events: events}}, nil
}

func (s *Server) handleGetEvent(ctx context.Context, input *EventInput) (*EventOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	event, err := s.services.Event.Get(ctx, userID, input.EventID)
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: event}, nil
}

func (s *Server) handleUpdateEvent(ctx context.Context, input *UpdateEventInput) (*EventOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	req := service.UpdateEventRequest{
		Title:       input.Body.Title,
		Date:        input.Body.Date,
		Venue:       input.Body.Venue,
		Description: input.Body.Description,
		Settings:    input.Body.Settings,
	}
	if input.Body.Type != nil {
		t := domain.EventType(*input.Body.Type)
		req.Type = &t
	}

	event, err := s.services.Event.Update(ctx, userID, input.EventID, req)
	if err != nil {
		return nil, err
	}

	return &EventOutput{Body: event}, nil
}

func (s *Server) handleDeleteEvent(ctx context.Context, input *EventInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Event.Delete(ctx, userID, input.EventID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Event deleted"}}, nil
}
