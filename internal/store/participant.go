package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

const (
	participantPrefix        = "participant:"
	participantByPhonePrefix = "idx:participants:phone:" // Unique within an event
)

var (
	// ErrParticipantNotFound is returned when a participant cannot be found.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrParticipantExists is returned when attempting to create a participant with an existing ID.
	ErrParticipantExists = errors.New("participant already exists")
	// ErrParticipantPhoneExists is returned when the phone number is already on the event's guest list.
	ErrParticipantPhoneExists = errors.New("phone number already on guest list")
)

// ParticipantFilter narrows ListParticipants results. Zero values match
// everything.
type ParticipantFilter struct {
	Status domain.ParticipantStatus
	Tag    string
}

func (f ParticipantFilter) matches(p *domain.Participant) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range p.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// CreateParticipant adds a guest to an event's list. The normalized
// phone number must be unique within the event.
func (s *Store) CreateParticipant(_ context.Context, p *domain.Participant) error {
	key := s.participantKey(p.EventID, p.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check participant exists: %w", err)
	}
	if exists {
		return ErrParticipantExists
	}

	phone := normalize.Phone(p.Phone)

	return s.db.Update(func(txn *badger.Txn) error {
		if phone != "" {
			phoneKey := s.participantPhoneKey(p.EventID, phone)
			if _, err := txn.Get(phoneKey); err == nil {
				return ErrParticipantPhoneExists
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check phone exists: %w", err)
			}
			if err := txn.Set(phoneKey, []byte(p.ID)); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, p)
	})
}

// GetParticipant retrieves a participant by event and ID.
func (s *Store) GetParticipant(_ context.Context, eventID, id string) (*domain.Participant, error) {
	key := s.participantKey(eventID, id)

	var p domain.Participant
	if err := s.get(key, &p); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	if p.IsDeleted() {
		return nil, ErrParticipantNotFound
	}

	return &p, nil
}

// GetParticipantByPhone retrieves a participant on an event by
// normalized phone number.
func (s *Store) GetParticipantByPhone(ctx context.Context, eventID, phone string) (*domain.Participant, error) {
	phoneKey := s.participantPhoneKey(eventID, normalize.Phone(phone))

	var participantID string
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := indexValueInTxn(txn, phoneKey)
		if err != nil {
			return err
		}
		participantID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("lookup participant by phone: %w", err)
	}

	return s.GetParticipant(ctx, eventID, participantID)
}

// ListParticipants returns a page of an event's participants matching
// the filter, ordered by ID.
func (s *Store) ListParticipants(_ context.Context, eventID string, filter ParticipantFilter, page PaginationParams) (*PaginatedResult[*domain.Participant], error) {
	page.Validate()

	prefix := []byte(participantPrefix + eventID + ":")
	startKey := prefix
	if page.Cursor != "" {
		cursorKey, err := DecodeCursor(page.Cursor)
		if err != nil {
			return nil, err
		}
		startKey = append([]byte(cursorKey), 0)
	}

	result := &PaginatedResult[*domain.Participant]{}
	var lastKey string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(startKey); it.ValidForPrefix(prefix); it.Next() {
			if len(result.Items) >= page.Limit {
				result.HasMore = true
				result.NextCursor = EncodeCursor(lastKey)
				return nil
			}

			item := it.Item()
			err := item.Value(func(val []byte) error {
				var p domain.Participant
				if unmarshalErr := json.Unmarshal(val, &p); unmarshalErr != nil {
					return nil //nolint:nilerr // skip malformed entries
				}

				if p.IsDeleted() || !filter.matches(&p) {
					return nil
				}

				result.Items = append(result.Items, &p)
				lastKey = string(item.Key())
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return result, nil
}

// ListParticipantsByTable returns every participant seated at the given
// table.
func (s *Store) ListParticipantsByTable(ctx context.Context, eventID, tableID string) ([]*domain.Participant, error) {
	page := PaginationParams{Limit: 1000}
	var seated []*domain.Participant

	for {
		result, err := s.ListParticipants(ctx, eventID, ParticipantFilter{}, page)
		if err != nil {
			return nil, err
		}
		for _, p := range result.Items {
			if p.TableID == tableID {
				seated = append(seated, p)
			}
		}
		if !result.HasMore {
			return seated, nil
		}
		page.Cursor = result.NextCursor
	}
}

// UpdateParticipant updates an existing participant, keeping the phone
// index in sync when the number changes.
func (s *Store) UpdateParticipant(ctx context.Context, p *domain.Participant) error {
	existing, err := s.GetParticipant(ctx, p.EventID, p.ID)
	if err != nil {
		return err
	}

	p.Touch()

	oldPhone := normalize.Phone(existing.Phone)
	newPhone := normalize.Phone(p.Phone)

	return s.db.Update(func(txn *badger.Txn) error {
		if oldPhone != newPhone {
			if oldPhone != "" {
				if err := txn.Delete(s.participantPhoneKey(p.EventID, oldPhone)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
			if newPhone != "" {
				phoneKey := s.participantPhoneKey(p.EventID, newPhone)
				if _, err := txn.Get(phoneKey); err == nil {
					return ErrParticipantPhoneExists
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("check phone exists: %w", err)
				}
				if err := txn.Set(phoneKey, []byte(p.ID)); err != nil {
					return err
				}
			}
		}

		return setInTxn(txn, s.participantKey(p.EventID, p.ID), p)
	})
}

// DeleteParticipant removes a participant and its phone index entry.
func (s *Store) DeleteParticipant(ctx context.Context, eventID, id string) error {
	p, err := s.GetParticipant(ctx, eventID, id)
	if err != nil {
		return err
	}

	phone := normalize.Phone(p.Phone)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.participantKey(eventID, id)); err != nil {
			return err
		}
		if phone != "" {
			_ = txn.Delete(s.participantPhoneKey(eventID, phone)) // Ignore if not exists
		}
		return nil
	})
}

// --- Key builders ---

func (s *Store) participantKey(eventID, id string) []byte {
	return []byte(participantPrefix + eventID + ":" + id)
}

func (s *Store) participantPhoneKey(eventID, phone string) []byte {
	return []byte(participantByPhonePrefix + eventID + ":" + phone)
}
