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
	userPrefix        = "user:"
	userByEmailPrefix = "idx:users:email:" // For password login lookups
	userByPhonePrefix = "idx:users:phone:" // For OTP login lookups
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID, email, or phone.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when attempting to use an email that's already registered.
	ErrEmailExists = errors.New("email already in use")
	// ErrPhoneExists is returned when attempting to use a phone number that's already registered.
	ErrPhoneExists = errors.New("phone number already in use")
)

// CreateUser creates a new user account. A user must carry at least one
// identity (email or phone); both are indexed for login lookups.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	key := []byte(userPrefix + user.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	email := normalize.Email(user.Email)
	phone := normalize.Phone(user.Phone)

	return s.db.Update(func(txn *badger.Txn) error {
		if email != "" {
			emailKey := []byte(userByEmailPrefix + email)
			if _, err := txn.Get(emailKey); err == nil {
				return ErrEmailExists
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email exists: %w", err)
			}
			if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
				return err
			}
		}

		if phone != "" {
			phoneKey := []byte(userByPhonePrefix + phone)
			if _, err := txn.Get(phoneKey); err == nil {
				return ErrPhoneExists
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check phone exists: %w", err)
			}
			if err := txn.Set(phoneKey, []byte(user.ID)); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, user)
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	key := []byte(userPrefix + id)

	var user domain.User
	if err := s.get(key, &user); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Check soft delete
	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserByIndex(ctx, []byte(userByEmailPrefix+normalize.Email(email)))
}

// GetUserByPhone retrieves a user by normalized phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.getUserByIndex(ctx, []byte(userByPhonePrefix+normalize.Phone(phone)))
}

func (s *Store) getUserByIndex(ctx context.Context, indexKey []byte) (*domain.User, error) {
	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := indexValueInTxn(txn, indexKey)
		if err != nil {
			return err
		}
		userID = id
		return nil
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return s.GetUser(ctx, userID)
}

// UpdateUser updates an existing user, keeping login indexes in sync
// when the email or phone changes.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	key := []byte(userPrefix + user.ID)

	oldUser, err := s.GetUser(ctx, user.ID)
	if err != nil {
		return err
	}

	user.Touch()

	oldEmail := normalize.Email(oldUser.Email)
	newEmail := normalize.Email(user.Email)
	oldPhone := normalize.Phone(oldUser.Phone)
	newPhone := normalize.Phone(user.Phone)

	return s.db.Update(func(txn *badger.Txn) error {
		if oldEmail != newEmail {
			if err := swapIndexInTxn(txn, userByEmailPrefix, oldEmail, newEmail, user.ID, ErrEmailExists); err != nil {
				return err
			}
		}
		if oldPhone != newPhone {
			if err := swapIndexInTxn(txn, userByPhonePrefix, oldPhone, newPhone, user.ID, ErrPhoneExists); err != nil {
				return err
			}
		}

		return setInTxn(txn, key, user)
	})
}

// swapIndexInTxn removes the old index entry and claims the new one,
// failing with conflictErr if the new value is already taken.
func swapIndexInTxn(txn *badger.Txn, prefix, oldValue, newValue, id string, conflictErr error) error {
	if oldValue != "" {
		if err := txn.Delete([]byte(prefix + oldValue)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
	}
	if newValue == "" {
		return nil
	}

	newKey := []byte(prefix + newValue)
	if _, err := txn.Get(newKey); err == nil {
		return conflictErr
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check index: %w", err)
	}
	return txn.Set(newKey, []byte(id))
}

// ListUsers returns all non-deleted users (for admin view).
func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	prefix := []byte(userPrefix)
	var users []*domain.User

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var user domain.User
				if unmarshalErr := json.Unmarshal(val, &user); unmarshalErr != nil {
					// Skip malformed users
					return nil //nolint:nilerr // intentionally skip malformed entries
				}

				if user.IsDeleted() {
					return nil
				}

				users = append(users, &user)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
