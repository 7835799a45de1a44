package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/id"
	"github.com/hagigaapp/hagiga-server/internal/store"
	"github.com/hagigaapp/hagiga-server/internal/validation"
)

// InvitationService manages event invitations: a text blurb with an
// optional media attachment.
type InvitationService struct {
	store     *store.Store
	events    *EventService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(s *store.Store, events *EventService, validator *validation.Validator, logger *slog.Logger) *InvitationService {
	return &InvitationService{
		store:     s,
		events:    events,
		validator: validator,
		logger:    logger,
	}
}

// CreateInvitationRequest contains new invitation data.
type CreateInvitationRequest struct {
	Text    string `json:"text" validate:"required,max=5000"`
	MediaID string `json:"media_id,omitempty"`
}

// UpdateInvitationRequest contains invitation fields to change.
type UpdateInvitationRequest struct {
	Text    *string `json:"text,omitempty" validate:"omitempty,min=1,max=5000"`
	MediaID *string `json:"media_id,omitempty"`
}

// Create adds an invitation to an event.
func (s *InvitationService) Create(ctx context.Context, userID, eventID string, req CreateInvitationRequest) (*domain.Invitation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	if req.MediaID != "" {
		if err := s.checkMedia(ctx, eventID, req.MediaID); err != nil {
			return nil, err
		}
	}

	invitationID, err := id.Generate("inv")
	if err != nil {
		return nil, fmt.Errorf("generate invitation ID: %w", err)
	}

	invitation := &domain.Invitation{
		Syncable:  domain.Syncable{ID: invitationID},
		EventID:   eventID,
		CreatorID: userID,
		MediaID:   req.MediaID,
		Text:      req.Text,
	}
	invitation.InitTimestamps()

	if err := s.store.CreateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	return invitation, nil
}

// List returns an event's invitations.
func (s *InvitationService) List(ctx context.Context, userID, eventID string) ([]*domain.Invitation, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	items, err := s.store.ListInvitationsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	return items, nil
}

// Update applies partial changes to an invitation.
func (s *InvitationService) Update(ctx context.Context, userID, eventID, invitationID string, req UpdateInvitationRequest) (*domain.Invitation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	invitation, err := s.getInvitation(ctx, eventID, invitationID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		invitation.Text = *req.Text
	}
	if req.MediaID != nil {
		if *req.MediaID != "" {
			if err := s.checkMedia(ctx, eventID, *req.MediaID); err != nil {
				return nil, err
			}
		}
		invitation.MediaID = *req.MediaID
	}

	if err := s.store.UpdateInvitation(ctx, invitation); err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}

	return invitation, nil
}

// Delete removes an invitation.
func (s *InvitationService) Delete(ctx context.Context, userID, eventID, invitationID string) error {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return err
	}

	if _, err := s.getInvitation(ctx, eventID, invitationID); err != nil {
		return err
	}

	if err := s.store.DeleteInvitation(ctx, invitationID); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}

	return nil
}

func (s *InvitationService) getInvitation(ctx context.Context, eventID, invitationID string) (*domain.Invitation, error) {
	invitation, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrInvitationNotFound) {
			return nil, domainerrors.NotFound("invitation not found")
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if invitation.EventID != eventID {
		return nil, domainerrors.NotFound("invitation not found")
	}
	return invitation, nil
}

// checkMedia verifies a media attachment exists and belongs to the
// same event.
func (s *InvitationService) checkMedia(ctx context.Context, eventID, mediaID string) error {
	media, err := s.store.GetMedia(ctx, mediaID)
	if err != nil {
		if errors.Is(err, store.ErrMediaNotFound) {
			return domainerrors.BadRequest("media not found")
		}
		return fmt.Errorf("get media: %w", err)
	}
	if media.EventID != eventID {
		return domainerrors.BadRequest("media belongs to another event")
	}
	return nil
}
