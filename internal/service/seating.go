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

// SeatingService manages an event's tables and seat assignments.
type SeatingService struct {
	store     *store.Store
	events    *EventService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSeatingService creates a new seating service.
func NewSeatingService(s *store.Store, events *EventService, validator *validation.Validator, logger *slog.Logger) *SeatingService {
	return &SeatingService{
		store:     s,
		events:    events,
		validator: validator,
		logger:    logger,
	}
}

// CreateTableRequest contains new table data. Position is a point on
// the host's floor-plan canvas.
type CreateTableRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Capacity int     `json:"capacity" validate:"required,min=1,max=100"`
	PosX     float64 `json:"pos_x,omitempty"`
	PosY     float64 `json:"pos_y,omitempty"`
}

// UpdateTableRequest contains table fields to change.
type UpdateTableRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=100"`
	PosX     *float64 `json:"pos_x,omitempty"`
	PosY     *float64 `json:"pos_y,omitempty"`
}

// AssignSeatRequest seats a guest at a table.
type AssignSeatRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	SeatIndex     int    `json:"seat_index" validate:"min=0"`
}

// UnassignSeatRequest removes a guest from their seat.
type UnassignSeatRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

// CreateTable adds a table to an event.
func (s *SeatingService) CreateTable(ctx context.Context, userID, eventID string, req CreateTableRequest) (*domain.Table, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	tableID, err := id.Generate("tbl")
	if err != nil {
		return nil, fmt.Errorf("generate table ID: %w", err)
	}

	table := &domain.Table{
		Syncable: domain.Syncable{ID: tableID},
		EventID:  eventID,
		Name:     req.Name,
		Capacity: req.Capacity,
		PosX:     req.PosX,
		PosY:     req.PosY,
	}
	table.InitTimestamps()

	if err := s.store.CreateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}

	return table, nil
}

// ListTables returns an event's tables.
func (s *SeatingService) ListTables(ctx context.Context, userID, eventID string) ([]*domain.Table, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	tables, err := s.store.ListTablesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	return tables, nil
}

// UpdateTable applies partial changes to a table. Shrinking capacity
// below an occupied seat is rejected.
func (s *SeatingService) UpdateTable(ctx context.Context, userID, eventID, tableID string, req UpdateTableRequest) (*domain.Table, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	table, err := s.getTable(ctx, eventID, tableID)
	if err != nil {
		return nil, err
	}

	if req.Capacity != nil && *req.Capacity < table.Capacity {
		seated, err := s.store.ListParticipantsByTable(ctx, eventID, tableID)
		if err != nil {
			return nil, fmt.Errorf("list seated participants: %w", err)
		}
		for _, p := range seated {
			if p.SeatIndex >= *req.Capacity {
				return nil, domainerrors.Conflict("cannot shrink table below an occupied seat")
			}
		}
	}

	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.PosX != nil {
		table.PosX = *req.PosX
	}
	if req.PosY != nil {
		table.PosY = *req.PosY
	}

	if err := s.store.UpdateTable(ctx, table); err != nil {
		return nil, fmt.Errorf("update table: %w", err)
	}

	return table, nil
}

// DeleteTable removes a table and unseats everyone at it.
func (s *SeatingService) DeleteTable(ctx context.Context, userID, eventID, tableID string) error {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return err
	}

	if _, err := s.getTable(ctx, eventID, tableID); err != nil {
		return err
	}

	seated, err := s.store.ListParticipantsByTable(ctx, eventID, tableID)
	if err != nil {
		return fmt.Errorf("list seated participants: %w", err)
	}
	for _, p := range seated {
		p.TableID = ""
		p.SeatIndex = 0
		if err := s.store.UpdateParticipant(ctx, p); err != nil {
			return fmt.Errorf("unseat participant %s: %w", p.ID, err)
		}
	}

	if err := s.store.DeleteTable(ctx, tableID); err != nil {
		return fmt.Errorf("delete table: %w", err)
	}

	s.logger.Info("table deleted", "event_id", eventID, "table_id", tableID, "unseated", len(seated))
	return nil
}

// Assign seats a guest at a specific seat of a table.
func (s *SeatingService) Assign(ctx context.Context, userID, eventID, tableID string, req AssignSeatRequest) (*domain.Participant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	table, err := s.getTable(ctx, eventID, tableID)
	if err != nil {
		return nil, err
	}

	if !table.HasSeat(req.SeatIndex) {
		return nil, domainerrors.BadRequestf("table %s has no seat %d", table.Name, req.SeatIndex)
	}

	p, err := s.store.GetParticipant(ctx, eventID, req.ParticipantID)
	if err != nil {
		if errors.Is(err, store.ErrParticipantNotFound) {
			return nil, domainerrors.NotFound("participant not found")
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	seated, err := s.store.ListParticipantsByTable(ctx, eventID, tableID)
	if err != nil {
		return nil, fmt.Errorf("list seated participants: %w", err)
	}
	for _, other := range seated {
		if other.ID != p.ID && other.SeatIndex == req.SeatIndex {
			return nil, domainerrors.Conflict("seat is already taken")
		}
	}

	p.TableID = tableID
	p.SeatIndex = req.SeatIndex
	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("seat participant: %w", err)
	}

	return p, nil
}

// Unassign removes a guest from their seat at a table.
func (s *SeatingService) Unassign(ctx context.Context, userID, eventID, tableID string, req UnassignSeatRequest) (*domain.Participant, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	p, err := s.store.GetParticipant(ctx, eventID, req.ParticipantID)
	if err != nil {
		if errors.Is(err, store.ErrParticipantNotFound) {
			return nil, domainerrors.NotFound("participant not found")
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	if p.TableID != tableID {
		return nil, domainerrors.BadRequest("participant is not seated at this table")
	}

	p.TableID = ""
	p.SeatIndex = 0
	if err := s.store.UpdateParticipant(ctx, p); err != nil {
		return nil, fmt.Errorf("unseat participant: %w", err)
	}

	return p, nil
}

func (s *SeatingService) getTable(ctx context.Context, eventID, tableID string) (*domain.Table, error) {
	table, err := s.store.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return nil, domainerrors.NotFound("table not found")
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	if table.EventID != eventID {
		return nil, domainerrors.NotFound("table not found")
	}
	return table, nil
}
