package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

const (
	tablePrefix        = "table:"
	tableByEventPrefix = "idx:tables:event:"
)

var (
	// ErrTableNotFound is returned when a table cannot be found.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableExists is returned when attempting to create a table with an existing ID.
	ErrTableExists = errors.New("table already exists")
)

// CreateTable stores a seating table and indexes it by event.
func (s *Store) CreateTable(_ context.Context, t *domain.Table) error {
	key := s.tableKey(t.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check table exists: %w", err)
	}
	if exists {
		return ErrTableExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, t); err != nil {
			return err
		}
		return txn.Set(s.tableEventKey(t.EventID, t.ID), []byte{})
	})
}

// GetTable retrieves a table by ID.
func (s *Store) GetTable(_ context.Context, id string) (*domain.Table, error) {
	key := s.tableKey(id)

	var t domain.Table
	if err := s.get(key, &t); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}

	if t.IsDeleted() {
		return nil, ErrTableNotFound
	}

	return &t, nil
}

// ListTablesByEvent returns all seating tables for an event.
func (s *Store) ListTablesByEvent(ctx context.Context, eventID string) ([]*domain.Table, error) {
	prefix := []byte(tableByEventPrefix + eventID + ":")
	var tableIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			tableIDs = append(tableIDs, string(key[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	tables := make([]*domain.Table, 0, len(tableIDs))
	for _, id := range tableIDs {
		t, err := s.GetTable(ctx, id)
		if err != nil {
			if errors.Is(err, ErrTableNotFound) {
				continue
			}
			return nil, err
		}
		tables = append(tables, t)
	}

	return tables, nil
}

// UpdateTable persists changes to a table.
func (s *Store) UpdateTable(ctx context.Context, t *domain.Table) error {
	if _, err := s.GetTable(ctx, t.ID); err != nil {
		return err
	}

	t.Touch()
	return s.set(s.tableKey(t.ID), t)
}

// DeleteTable removes a table and its event index entry.
func (s *Store) DeleteTable(ctx context.Context, id string) error {
	t, err := s.GetTable(ctx, id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.tableKey(id)); err != nil {
			return err
		}
		_ = txn.Delete(s.tableEventKey(t.EventID, id)) // Ignore if not exists
		return nil
	})
}

// --- Key builders ---

func (s *Store) tableKey(id string) []byte {
	return []byte(tablePrefix + id)
}

func (s *Store) tableEventKey(eventID, tableID string) []byte {
	return []byte(tableByEventPrefix + eventID + ":" + tableID)
}
