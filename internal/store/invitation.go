package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hagigaapp/hagiga-server/internal/domain"
)

const (
	invitationPrefix        = "invitation:"
	invitationByEventPrefix = "idx:invitations:event:"
)

var (
	// ErrInvitationNotFound is returned when an invitation cannot be found.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationExists is returned when attempting to create an invitation with an existing ID.
	ErrInvitationExists = errors.New("invitation already exists")
)

// CreateInvitation stores an invitation and indexes it by event.
func (s *Store) CreateInvitation(_ context.Context, inv *domain.Invitation) error {
	key := s.invitationKey(inv.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check invitation exists: %w", err)
	}
	if exists {
		return ErrInvitationExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, inv); err != nil {
			return err
		}
		return txn.Set(s.invitationEventKey(inv.EventID, inv.ID), []byte{})
	})
}

// GetInvitation retrieves an invitation by ID.
func (s *Store) GetInvitation(_ context.Context, id string) (*domain.Invitation, error) {
	key := s.invitationKey(id)

	var inv domain.Invitation
	if err := s.get(key, &inv); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	if inv.IsDeleted() {
		return nil, ErrInvitationNotFound
	}

	return &inv, nil
}

// ListInvitationsByEvent returns all invitations for an event.
func (s *Store) ListInvitationsByEvent(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	prefix := []byte(invitationByEventPrefix + eventID + ":")
	var invIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			invIDs = append(invIDs, string(key[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	invitations := make([]*domain.Invitation, 0, len(invIDs))
	for _, id := range invIDs {
		inv, err := s.GetInvitation(ctx, id)
		if err != nil {
			if errors.Is(err, ErrInvitationNotFound) {
				continue
			}
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, nil
}

// UpdateInvitation persists changes to an invitation.
func (s *Store) UpdateInvitation(ctx context.Context, inv *domain.Invitation) error {
	if _, err := s.GetInvitation(ctx, inv.ID); err != nil {
		return err
	}

	inv.Touch()
	return s.set(s.invitationKey(inv.ID), inv)
}

// DeleteInvitation removes an invitation and its event index entry.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	inv, err := s.GetInvitation(ctx, id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(s.invitationKey(id)); err != nil {
			return err
		}
		_ = txn.Delete(s.invitationEventKey(inv.EventID, id)) // Ignore if not exists
		return nil
	})
}

// --- Key builders ---

func (s *Store) invitationKey(id string) []byte {
	return []byte(invitationPrefix + id)
}

func (s *Store) invitationEventKey(eventID, invID string) []byte {
	return []byte(invitationByEventPrefix + eventID + ":" + invID)
}
