package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

const (
	mediaPrefix        = "media:"
	mediaByEventPrefix = "idx:media:event:"
	mediaByKeyPrefix   = "idx:media:key:" // Serving lookups by storage key
)

var (
	// ErrMediaNotFound is returned when a media record cannot be found.
	ErrMediaNotFound = errors.New("media not found")
	// ErrMediaExists is returned when attempting to create media with an existing ID.
	ErrMediaExists = errors.New("media already exists")
)

// CreateMedia stores a media record and indexes it by event and by
// storage key.
func (s *Store) CreateMedia(_ context.Context, m *domain.Media) error {
	key := s.mediaKey(m.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check media exists: %w", err)
	}
	if exists {
		return ErrMediaExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, m); err != nil {
			return err
		}
		if err := txn.Set(s.mediaEventKey(m.EventID, m.ID), []byte{}); err != nil {
			return err
		}
		if err := txn.Set(s.mediaStorageKeyIndex(m.StorageKey), []byte(m.ID)); err != nil {
			return err
		}
		// Thumbnails serve through the same key-addressed lookup.
		if m.ThumbnailKey != "" {
			return txn.Set(s.mediaStorageKeyIndex(m.ThumbnailKey), []byte(m.ID))
		}
		return nil
	})
}

// GetMedia retrieves a media record by ID.
func (s *Store) GetMedia(_ context.Context, id string) (*domain.Media, error) {
	key := s.mediaKey(id)

	var m domain.Media
	if err := s.get(key, &m); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("get media: %w", err)
	}

	if m.IsDeleted() {
		return nil, ErrMediaNotFound
	}

	return &m, nil
}

// GetMediaByStorageKey retrieves a media record by its storage key.
// Used when serving objects by URL path.
func (s *Store) GetMediaByStorageKey(ctx context.Context, storageKey string) (*domain.Media, error) {
	indexKey := s.mediaStorageKeyIndex(storageKey)

	var mediaID string
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := indexValueInTxn(txn, indexKey)
		if err != nil {
			return err
		}
		mediaID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("lookup media by storage key: %w", err)
	}

	return s.GetMedia(ctx, mediaID)
}

// ListMediaByEvent returns all media attached to an event.
func (s *Store) ListMediaByEvent(ctx context.Context, eventID string) ([]*domain.Media, error) {
	prefix := []byte(mediaByEventPrefix + eventID + ":")
	var mediaIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			mediaIDs = append(mediaIDs, string(key[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	media := make([]*domain.Media, 0, len(mediaIDs))
	for _, id := range mediaIDs {
		m, err := s.GetMedia(ctx, id)
		if err != nil {
			if errors.Is(err, ErrMediaNotFound) {
				continue
			}
			return nil, err
		}
		media = append(media, m)
	}

	return media, nil
}

// UpdateMedia persists changes to a media record. The storage key is
// immutable once created.
func (s *Store) UpdateMedia(ctx context.Context, m *domain.Media) error {
	existing, err := s.GetMedia(ctx, m.ID)
	if err != nil {
		return err
	}
	if existing.StorageKey != m.StorageKey {
		return fmt.Errorf("media storage key is immutable")
	}

	m.Touch()
	return s.set(s.mediaKey(m.ID), m)
}

// DeleteMedia removes a media record and its indexes.
func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	m, err := s.GetMedia(ctx, id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.mediaKey(id)); err != nil {
			return err
		}
		_ = txn.Delete(s.mediaEventKey(m.EventID, id))       // Ignore if not exists
		_ = txn.Delete(s.mediaStorageKeyIndex(m.StorageKey)) // Ignore if not exists
		if m.ThumbnailKey != "" {
			_ = txn.Delete(s.mediaStorageKeyIndex(m.ThumbnailKey))
		}
		return nil
	})
}

// --- Key builders ---

func (s *Store) mediaKey(id string) []byte {
	return []byte(mediaPrefix + id)
}

func (s *Store) mediaEventKey(eventID, mediaID string) []byte {
	return []byte(mediaByEventPrefix + eventID + ":" + mediaID)
}

func (s *Store) mediaStorageKeyIndex(storageKey string) []byte {
	return []byte(mediaByKeyPrefix + storageKey)
}
