package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hagigaapp/hagiga-server/internal/domain"
	domainerrors "github.com/hagigaapp/hagiga-server/internal/errors"
	"github.com/hagigaapp/hagiga-server/internal/search"
	"github.com/hagigaapp/hagiga-server/internal/store"
)

// GuestIndexer receives guest list changes so the search index stays
// current. Indexing failures are logged, never surfaced: a stale index
// entry is an inconvenience, a failed check-in is not.
type GuestIndexer interface {
	IndexParticipant(p *domain.Participant)
	RemoveParticipant(participantID string)
	ReindexEvent(ctx context.Context, eventID string)
	RemoveEventGuests(ctx context.Context, eventID string)
}

// SearchService provides full-text guest search over an event's list.
type SearchService struct {
	store  *store.Store
	events *EventService
	index  *search.GuestIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(s *store.Store, events *EventService, index *search.GuestIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  s,
		events: events,
		index:  index,
		logger: logger,
	}
}

// SearchGuestsRequest is a guest search query.
type SearchGuestsRequest struct {
	Query  string
	Status string
	Tag    string
	Limit  int
	Offset int
	SortBy string
}

// Search runs a full-text query over an event's guest list.
func (s *SearchService) Search(ctx context.Context, userID, eventID string, req SearchGuestsRequest) (*search.SearchResult, error) {
	if _, err := s.events.RequireOwner(ctx, userID, eventID); err != nil {
		return nil, err
	}

	if req.Status != "" && !domain.ValidParticipantStatus(domain.ParticipantStatus(req.Status)) {
		return nil, domainerrors.BadRequest("unknown participant status")
	}

	params := search.DefaultSearchParams()
	params.Query = req.Query
	params.EventID = eventID
	if req.Status != "" {
		params.Statuses = []string{req.Status}
	}
	if req.Tag != "" {
		params.Tags = []string{req.Tag}
	}
	if req.Limit > 0 {
		params.Limit = min(req.Limit, 100)
	}
	if req.Offset > 0 {
		params.Offset = req.Offset
	}
	if req.SortBy != "" {
		params.SortBy = req.SortBy
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search guests: %w", err)
	}
	return result, nil
}

// ReindexAll rebuilds the index from the store. Called at startup so
// the index survives mapping changes and missed writes.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	events, err := s.store.ListAllEvents(ctx)
	if err != nil {
		return fmt.Errorf("list events for reindex: %w", err)
	}

	total := 0
	for _, event := range events {
		n, err := s.reindexEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		total += n
	}

	s.logger.Info("guest index rebuilt", "events", len(events), "guests", total)
	return nil
}

func (s *SearchService) reindexEvent(ctx context.Context, eventID string) (int, error) {
	total := 0
	params := store.PaginationParams{Limit: 500}

	for {
		result, err := s.store.ListParticipants(ctx, eventID, store.ParticipantFilter{}, params)
		if err != nil {
			return total, fmt.Errorf("list participants for reindex: %w", err)
		}

		docs := make([]*search.GuestDocument, 0, len(result.Items))
		for _, p := range result.Items {
			docs = append(docs, search.ParticipantToDocument(p))
		}
		if err := s.index.IndexGuests(docs); err != nil {
			return total, fmt.Errorf("index guests: %w", err)
		}
		total += len(docs)

		if !result.HasMore {
			return total, nil
		}
		params.Cursor = result.NextCursor
	}
}

// === GuestIndexer ===

// IndexParticipant adds or refreshes one guest in the index.
func (s *SearchService) IndexParticipant(p *domain.Participant) {
	if err := s.index.IndexGuest(search.ParticipantToDocument(p)); err != nil {
		s.logger.Warn("failed to index participant", "participant_id", p.ID, "error", err)
	}
}

// RemoveParticipant drops one guest from the index.
func (s *SearchService) RemoveParticipant(participantID string) {
	if err := s.index.DeleteGuest(participantID); err != nil {
		s.logger.Warn("failed to remove participant from index", "participant_id", participantID, "error", err)
	}
}

// ReindexEvent refreshes every guest of one event, used after bulk
// imports land.
func (s *SearchService) ReindexEvent(ctx context.Context, eventID string) {
	if _, err := s.reindexEvent(ctx, eventID); err != nil {
		s.logger.Warn("failed to reindex event guests", "event_id", eventID, "error", err)
	}
}

// RemoveEventGuests drops all of an event's guests from the index,
// used when an event is deleted.
func (s *SearchService) RemoveEventGuests(ctx context.Context, eventID string) {
	for {
		result, err := s.index.Search(ctx, search.SearchParams{
			EventID: eventID,
			Limit:   500,
		})
		if err != nil {
			s.logger.Warn("failed to find event guests for removal", "event_id", eventID, "error", err)
			return
		}
		if len(result.Hits) == 0 {
			return
		}

		ids := make([]string, 0, len(result.Hits))
		for _, hit := range result.Hits {
			ids = append(ids, hit.ID)
		}
		if err := s.index.DeleteGuests(ids); err != nil {
			s.logger.Warn("failed to remove event guests from index", "event_id", eventID, "error", err)
			return
		}
	}
}
