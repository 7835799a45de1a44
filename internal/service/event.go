package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/media/files"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// EventService manages events and enforces event ownership.
type EventService struct {
	store     *store.Store
	storage   files.Storage
	validator *validation.Validator
	logger    *slog.Logger
	indexer   GuestIndexer
}

// SetGuestIndexer wires the search index so deleted events drop their
// guests from it.
func (s *EventService) SetGuestIndexer(indexer GuestIndexer) {
	s.indexer = indexer
}

// NewEventService creates a new event service.
func NewEventService(s *store.Store, storage files.Storage, validator *validation.Validator, logger *slog.Logger) *EventService {
	return &EventService{
		store:     s,
		storage:   storage,
		validator: validator,
		logger:    logger,
	}
}

// CreateEventRequest contains new event data.
type CreateEventRequest struct {
	Title       string               `json:"title" validate:"required,max=200"`
	Type        domain.EventType     `json:"type" validate:"required,oneof=wedding party corporate other"`
	Date        time.Time            `json:"date" validate:"required"`
	Venue       string               `json:"venue,omitempty" validate:"max=200"`
	Description string               `json:"description,omitempty" validate:"max=2000"`
	Settings    domain.EventSettings `json:"settings,omitempty"`
}

// UpdateEventRequest contains event fields to change; nil fields are
// left untouched.
type UpdateEventRequest struct {
	Title       *string               `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Type        *domain.EventType     `json:"type,omitempty" validate:"omitempty,oneof=wedding party corporate other"`
	Date        *time.Time            `json:"date,omitempty"`
	Venue       *string               `json:"venue,omitempty" validate:"omitempty,max=200"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=2000"`
	Settings    *domain.EventSettings `json:"settings,omitempty"`
}

// Create creates an event owned by the user.
func (s *EventService) Create(ctx context.Context, userID string, req CreateEventRequest) (*domain.Event, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	eventID, err := id.Generate("evt")
	if err != nil {
		return nil, fmt.Errorf("generate event ID: %w", err)
	}

	event := &domain.Event{
		Syncable:    domain.Syncable{ID: eventID},
		OwnerIDs:    []string{userID},
		Title:       req.Title,
		Type:        req.Type,
		Date:        req.Date,
		Venue:       req.Venue,
		Description: req.Description,
		Settings:    req.Settings,
	}
	event.InitTimestamps()

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("event created", "event_id", event.ID, "owner_id", userID)
	return event, nil
}

// Get returns an event the user is allowed to see.
func (s *EventService) Get(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	return s.RequireOwner(ctx, userID, eventID)
}

// List returns the user's events.
func (s *EventService) List(ctx context.Context, userID string) ([]*domain.Event, error) {
	events, err := s.store.ListEventsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Update applies partial changes to an event.
func (s *EventService) Update(ctx context.Context, userID, eventID string, req UpdateEventRequest) (*domain.Event, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.RequireOwner(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Settings != nil {
		event.Settings = *req.Settings
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return event, nil
}

// Delete removes an event and everything scoped to it: guest list,
// import jobs, invitations, media, seating tables, and stored files.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := s.RequireOwner(ctx, userID, eventID); err != nil {
		return err
	}

	cascade, err := s.store.DeleteEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	// Stored files go best-effort; records are already gone.
	for _, key := range append(cascade.ImportFileKeys, cascade.MediaKeys...) {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete stored file", "event_id", eventID, "key", key, "error", err)
		}
	}

	if s.indexer != nil {
		s.indexer.RemoveEventGuests(ctx, eventID)
	}

	s.logger.Info("event deleted", "event_id", eventID, "user_id", userID)
	return nil
}

// RequireOwner loads an event and verifies the user owns it (or is an
// admin). Other services use this for event-scoped authorization.
func (s *EventService) RequireOwner(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			return nil, domainerrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if event.IsOwner(userID) {
		return event, nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if err == nil && user.IsAdmin() {
		return event, nil
	}

	return nil, domainerrors.Forbidden("you do not own this event")
}
