package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hagigaapp/hagiga-server/internal/color"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// ParticipantService manages an event's guest list.
type ParticipantService struct {
	store     *store.Store
	events    *EventService
	validator *validation.Validator
	logger    *slog.Logger
	indexer   GuestIndexer
	activity  ActivityBroadcaster
}

// NewParticipantService creates a new participant service.
func NewParticipantService(s *store.Store, events *EventService, validator *validation.Validator, logger *slog.Logger) *ParticipantService {
	return &ParticipantService{
		store:     s,
		events:    events,
		validator: validator,
		logger:    logger,
	}
}

// SetGuestIndexer wires the search index; optional, guest management
// works without one.
func (s *ParticipantService) SetGuestIndexer(indexer GuestIndexer) {
	s.indexer = indexer
}

// SetActivityBroadcaster wires the live activity stream; optional.
func (s *ParticipantService) SetActivityBroadcaster(activity ActivityBroadcaster) {
	s.activity = activity
}

// AddParticipantItem is one guest in a manual bulk-add request. Manual
// entry uses the strict phone policy; the person typing can fix a bad
// number immediately.
type AddParticipantItem struct {
	Name         string   `json:"name" validate:"required,max=200"`
	LastName     string   `json:"last_name,omitempty" validate:"max=200"`
	Phone        string   `json:"phone" validate:"required,natphone"`
	NumAttendees int      `json:"num_attendees,omitempty" validate:"omitempty,min=1,max=100"`
	Tags         []string `json:"tags,omitempty"`
}

// AddParticipantResult reports the outcome for one bulk-add item.
type AddParticipantResult struct {
	Participant *domain.Participant `json:"participant,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// UpdateParticipantRequest contains guest fields to change; nil fields
// are left untouched.
type UpdateParticipantRequest struct {
	Name         *string                   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	LastName     *string                   `json:"last_name,omitempty" validate:"omitempty,max=200"`
	Phone        *string                   `json:"phone,omitempty" validate:"omitempty,natphone"`
	NumAttendees *int                      `json:"num_attendees,omitempty" validate:"omitempty,min=1,max=100"`
	Tags         *[]string                 `json:"tags,omitempty"`
	Status       *domain.ParticipantStatus `json:"status,omitempty"`
}

// ListParticipantsRequest filters and pages a guest list.
type ListParticipantsRequest struct {
	Status domain.ParticipantStatus
	Tag    string
	Limit  int
	Cursor string
}

// BulkAdd adds guests to an event. Items are independent: a failed one
// reports its error without blocking the rest, mirroring how imports
// treat rows.
func (s *ParticipantService) BulkAdd(ctx context.Context, userID, eventID string, items []AddParticipantItem) ([]AddParticipantResult, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domainerrors.BadRequest("no participants to add")
	}

	results := make([]AddParticipantResult, 0, len(items))
	for _, item := range items {
		p, err := s.addOne(ctx, eventID, item)
		if err != nil {
			results = append(results, AddParticipantResult{Error: err.Error()})
			continue
		}
		results = append(results, AddParticipantResult{Participant: p})
	}

	return results, nil
}

func (s *ParticipantService) addOne(ctx context.Context, eventID string, item AddParticipantItem) (*domain.Participant, error) {
	if err := s.validator.Validate(item); err != nil {
		return nil, err
	}

	participantID, err := id.Generate("prt")
	if err != nil {
		return nil, fmt.Errorf("generate participant ID: %w", err)
	}

	numAttendees := item.NumAttendees
	if numAttendees == 0 {
		numAttendees = 1
	}

	p := &domain.Participant{
		Syncable:     domain.Syncable{ID: participantID},
		EventID:      eventID,
		Name:         normalize.Name(item.Name),
		LastName:     normalize.Name(item.LastName),
		Phone:        normalize.Phone(item.Phone),
		NumAttendees: numAttendees,
		Tags:         normalize.Tags(item.Tags),
		Status:       domain.ParticipantStatusInvited,
	}
	p.AvatarColor = color.ForName(p.DisplayName())
	p.InitTimestamps()

	if err := s.store.CreateParticipant(ctx, p); err != nil {
		if errors.Is(err, store.ErrParticipantPhoneExists) {
			return nil, domainerrors.Conflict("phone number already on guest list")
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}

	if s.indexer != nil {
		s.indexer.IndexParticipant(p)
	}
	if s.activity != nil {
		s.activity.ParticipantAdded(p)
	}

	return p, nil
}

// List returns a filtered page of an event's guest list.
func (s *ParticipantService) List(ctx context.Context, userID, eventID string, req ListParticipantsRequest) (*store.PaginatedResult[*domain.Participant], error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	if req.Status != "" && !domain.ValidParticipantStatus(req.Status) {
		return nil, domainerrors.BadRequest("unknown participant status")
	}

	result, err := s.store.ListParticipants(ctx, eventID,
		store.ParticipantFilter{Status: req.Status, Tag: normalize.Tag(req.Tag)},
		store.PaginationParams{Limit: req.Limit, Cursor: req.Cursor},
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return result, nil
}

// Get returns one guest from an event the user owns.
func (s *ParticipantService) Get(ctx context.Context, userID, eventID, participantID string) (*domain.Participant, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return s.getParticipant(ctx, eventID, participantID)
}

// Update applies partial changes to a guest, including RSVP status.
func (s *ParticipantService) Update(ctx context.Context, userID, eventID, participantID string, req UpdateParticipantRequest) (*domain.Participant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	p, err := s.getParticipant(ctx, eventID, participantID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = normalize.Name(*req.Name)
	}
	if req.LastName != nil {
		p.LastName = normalize.Name(*req.LastName)
	}
	if req.Phone != nil {
		p.Phone = normalize.Phone(*req.Phone)
	}
	if req.NumAttendees != nil {
		p.NumAttendees = *req.NumAttendees
	}
	if req.Tags != nil {
		p.Tags = normalize.Tags(*req.Tags)
	}
	if req.Status != nil {
		if !domain.ValidParticipantStatus(*req.Status) {
			return nil, domainerrors.BadRequest("unknown participant status")
		}
		p.Status = *req.Status
	}
	p.AvatarColor = color.ForName(p.DisplayName())

	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		if errors.Is(err, store.ErrParticipantPhoneExists) {
			return nil, domainerrors.Conflict("phone number already on guest list")
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}

	if s.indexer != nil {
		s.indexer.IndexParticipant(p)
	}
	if s.activity != nil {
		s.activity.ParticipantUpdated(p)
	}

	return p, nil
}

// CheckIn marks a guest as arrived.
func (s *ParticipantService) CheckIn(ctx context.Context, userID, eventID, participantID string) (*domain.Participant, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	p, err := s.getParticipant(ctx, eventID, participantID)
	if err != nil {
		return nil, err
	}

	if p.Status == domain.ParticipantStatusCheckedIn {
		return nil, domainerrors.Conflict("participant is already checked in")
	}
	if p.Status == domain.ParticipantStatusDeclined {
		return nil, domainerrors.Conflict("participant has declined")
	}

	p.Status = domain.ParticipantStatusCheckedIn
	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("check in participant: %w", err)
	}

	if s.indexer != nil {
		s.indexer.IndexParticipant(p)
	}
	if s.activity != nil {
		s.activity.ParticipantCheckedIn(p)
	}

	s.logger.Info("participant checked in", "event_id", eventID, "participant_id", participantID)
	return p, nil
}

// Delete removes a guest from an event.
func (s *ParticipantService) Delete(ctx context.Context, userID, eventID, participantID string) error {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return err
	}

	if err := s.store.DeleteParticipant(ctx, eventID, participantID); err != nil {
		if errors.Is(err, store.ErrParticipantNotFound) {
			return domainerrors.NotFound("participant not found")
		}
		return fmt.Errorf("delete participant: %w", err)
	}

	if s.indexer != nil {
		s.indexer.RemoveParticipant(participantID)
	}
	if s.activity != nil {
		s.activity.ParticipantRemoved(eventID, participantID)
	}

	return nil
}

func (s *ParticipantService) getParticipant(ctx context.Context, eventID, participantID string) (*domain.Participant, error) {
	p, err := s.store.GetParticipant(ctx, eventID, participantID)
	if err != nil {
		if errors.Is(err, store.ErrParticipantNotFound) {
			return nil, domainerrors.NotFound("participant not found")
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}
