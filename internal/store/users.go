package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// CreateUser persists a new user and their username index entry.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	nameKey := buildKey(userNameIdxPrefix, user.Username)

	taken, err := s.exists(nameKey)
	if err != nil {
		return fmt.Errorf("check username exists: %w", err)
	}
	if taken {
		return ErrUserExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}

		if err := txn.Set(buildKey(userPrefix, user.ID), data); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(user.ID))
	})
}

// UpdateUser overwrites an existing user document.
func (s *Store) UpdateUser(_ context.Context, user *domain.User) error {
	return s.set(buildKey(userPrefix, user.ID), user)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := s.get(buildKey(userPrefix, userID), &user); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every registered user.
func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	return listPrefix[domain.User](s, userPrefix)
}

// GetUserByUsername resolves a username through the name index.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var userID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(buildKey(userNameIdxPrefix, username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve username: %w", err)
	}

	return s.GetUser(ctx, userID)
}
