package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

const (
	eventPrefix        = "event:"
	eventByOwnerPrefix = "idx:events:owner:"
)

var (
	// ErrEventNotFound is returned when an event cannot be found by ID.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventExists is returned when attempting to create an event with an existing ID.
	ErrEventExists = errors.New("event already exists")
)

// EventCascade lists external objects orphaned by an event deletion.
// The store only removes records; the caller is responsible for
// removing the referenced files from storage.
type EventCascade struct {
	ImportFileKeys []string
	MediaKeys      []string
}

// CreateEvent creates a new event and indexes it for each owner.
func (s *Store) CreateEvent(_ context.Context, event *domain.Event) error {
	key := s.eventKey(event.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if exists {
		return ErrEventExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, event); err != nil {
			return err
		}

		for _, ownerID := range event.OwnerIDs {
			if err := txn.Set(s.eventOwnerKey(ownerID, event.ID), []byte{}); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetEvent retrieves an event by ID.
func (s *Store) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	key := s.eventKey(id)

	var event domain.Event
	if err := s.get(key, &event); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if event.IsDeleted() {
		return nil, ErrEventNotFound
	}

	return &event, nil
}

// ListEventsByOwner returns all events the given user owns.
func (s *Store) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	prefix := []byte(eventByOwnerPrefix + ownerID + ":")
	var eventIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			eventIDs = append(eventIDs, string(key[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}

	events := make([]*domain.Event, 0, len(eventIDs))
	for _, id := range eventIDs {
		event, err := s.GetEvent(ctx, id)
		if err != nil {
			if errors.Is(err, ErrEventNotFound) {
				continue
			}
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// ListAllEvents returns every live event. Used for full reindexing;
// normal request paths go through ListEventsByOwner.
func (s *Store) ListAllEvents(_ context.Context) ([]*domain.Event, error) {
	prefix := []byte(eventPrefix)
	var events []*domain.Event

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var event domain.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			})
			if err != nil {
				return err
			}
			if event.IsDeleted() {
				continue
			}
			events = append(events, &event)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}

	return events, nil
}

// UpdateEvent updates an existing event, keeping owner indexes in sync.
func (s *Store) UpdateEvent(ctx context.Context, event *domain.Event) error {
	existing, err := s.GetEvent(ctx, event.ID)
	if err != nil {
		return err
	}

	event.Touch()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, s.eventKey(event.ID), event); err != nil {
			return err
		}

		oldOwners := make(map[string]bool, len(existing.OwnerIDs))
		for _, ownerID := range existing.OwnerIDs {
			oldOwners[ownerID] = true
		}
		newOwners := make(map[string]bool, len(event.OwnerIDs))
		for _, ownerID := range event.OwnerIDs {
			newOwners[ownerID] = true
		}

		for ownerID := range oldOwners {
			if !newOwners[ownerID] {
				if err := txn.Delete(s.eventOwnerKey(ownerID, event.ID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
			}
		}
		for ownerID := range newOwners {
			if !oldOwners[ownerID] {
				if err := txn.Set(s.eventOwnerKey(ownerID, event.ID), []byte{}); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// DeleteEvent deletes an event and all records scoped to it:
// participants, import jobs, invitations, media, and tables. Returns
// the storage keys of files that belonged to the event so the caller
// can remove them from object storage.
func (s *Store) DeleteEvent(ctx context.Context, id string) (*EventCascade, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	cascade := &EventCascade{}

	jobs, err := s.ListImportJobsByEvent(ctx, id, 0)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if job.FileKey != "" {
			cascade.ImportFileKeys = append(cascade.ImportFileKeys, job.FileKey)
		}
	}

	media, err := s.ListMediaByEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.eventKey(id)); err != nil {
			return err
		}

		for _, ownerID := range event.OwnerIDs {
			_ = txn.Delete(s.eventOwnerKey(ownerID, id)) // Ignore if not exists
		}

		// Participants and their phone index
		if err := s.deletePrefixInTxn(txn, []byte(participantPrefix+id+":")); err != nil {
			return err
		}
		if err := s.deletePrefixInTxn(txn, []byte(participantByPhonePrefix+id+":")); err != nil {
			return err
		}

		// Import jobs live under their own IDs; delete via the event index
		for _, job := range jobs {
			if err := txn.Delete(s.importJobKey(job.ID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if err := s.deletePrefixInTxn(txn, []byte(importByEventPrefix+id+":")); err != nil {
			return err
		}

		// Invitations
		for _, invID := range collectIndexedIDs(txn, invitationByEventPrefix+id+":") {
			if err := txn.Delete(s.invitationKey(invID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if err := s.deletePrefixInTxn(txn, []byte(invitationByEventPrefix+id+":")); err != nil {
			return err
		}

		// Media records plus their storage-key index
		for _, m := range media {
			cascade.MediaKeys = append(cascade.MediaKeys, m.StorageKey)
			if err := txn.Delete(s.mediaKey(m.ID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			_ = txn.Delete(s.mediaStorageKeyIndex(m.StorageKey))
		}
		if err := s.deletePrefixInTxn(txn, []byte(mediaByEventPrefix+id+":")); err != nil {
			return err
		}

		// Tables
		for _, tableID := range collectIndexedIDs(txn, tableByEventPrefix+id+":") {
			if err := txn.Delete(s.tableKey(tableID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return s.deletePrefixInTxn(txn, []byte(tableByEventPrefix+id+":"))
	})
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}

	return cascade, nil
}

// collectIndexedIDs gathers the ID suffixes of every key under prefix.
func collectIndexedIDs(txn *badger.Txn, prefix string) []string {
	p := []byte(prefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = p
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		key := it.Item().Key()
		ids = append(ids, string(key[len(p):]))
	}
	return ids
}

// --- Key builders ---

func (s *Store) eventKey(id string) []byte {
	return []byte(eventPrefix + id)
}

func (s *Store) eventOwnerKey(ownerID, eventID string) []byte {
	return []byte(eventByOwnerPrefix + ownerID + ":" + eventID)
}
