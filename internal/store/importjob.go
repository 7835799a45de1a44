package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

const (
	importPrefix        = "import:"
	importByEventPrefix = "idx:imports:event:"
)

var (
	// ErrImportJobNotFound is returned when an import job cannot be found by ID.
	ErrImportJobNotFound = errors.New("import job not found")
	// ErrImportJobExists is returned when attempting to create an import job with an existing ID.
	ErrImportJobExists = errors.New("import job already exists")
)

// CreateImportJob creates a new import job and indexes it by event.
func (s *Store) CreateImportJob(_ context.Context, job *domain.ImportJob) error {
	key := s.importJobKey(job.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check import job exists: %w", err)
	}
	if exists {
		return ErrImportJobExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, job); err != nil {
			return err
		}
		return txn.Set(s.importJobEventKey(job.EventID, job.ID), []byte{})
	})
}

// GetImportJob retrieves an import job by ID.
func (s *Store) GetImportJob(_ context.Context, id string) (*domain.ImportJob, error) {
	key := s.importJobKey(id)

	var job domain.ImportJob
	if err := s.get(key, &job); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrImportJobNotFound
		}
		return nil, fmt.Errorf("get import job: %w", err)
	}

	return &job, nil
}

// UpdateImportJob persists the current state of an import job.
func (s *Store) UpdateImportJob(_ context.Context, job *domain.ImportJob) error {
	key := s.importJobKey(job.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check import job exists: %w", err)
	}
	if !exists {
		return ErrImportJobNotFound
	}

	job.Touch()
	return s.set(key, job)
}

// ListImportJobsByEvent returns an event's import jobs, most recent
// first. A limit of 0 returns all jobs.
func (s *Store) ListImportJobsByEvent(ctx context.Context, eventID string, limit int) ([]*domain.ImportJob, error) {
	prefix := []byte(importByEventPrefix + eventID + ":")
	var jobIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			jobIDs = append(jobIDs, string(key[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}

	jobs := make([]*domain.ImportJob, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		job, err := s.GetImportJob(ctx, jobID)
		if err != nil {
			if errors.Is(err, ErrImportJobNotFound) {
				continue
			}
			return nil, err
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}

	return jobs, nil
}

// --- Key builders ---

func (s *Store) importJobKey(id string) []byte {
	return []byte(importPrefix + id)
}

func (s *Store) importJobEventKey(eventID, jobID string) []byte {
	return []byte(importByEventPrefix + eventID + ":" + jobID)
}
