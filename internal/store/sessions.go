package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// UpsertSession stores a session and marks it as the most recent one
// for its user+game:playtype, which the session builder extends when
// new scores fall within the session gap.
func (s *Store) UpsertSession(_ context.Context, session *domain.SessionDocument) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		if err := txn.Set(buildKey(sessionPrefix, session.SessionID), data); err != nil {
			return err
		}

		lastKey := buildKey(sessionLastIdxPrefix, session.UserID, string(session.Game), string(session.Playtype))
		return txn.Set(lastKey, []byte(session.SessionID))
	})
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(_ context.Context, sessionID string) (*domain.SessionDocument, error) {
	var session domain.SessionDocument
	if err := s.get(buildKey(sessionPrefix, sessionID), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// GetLastSession returns the most recently written session for a
// user+game:playtype, or ErrSessionNotFound if the user has none.
func (s *Store) GetLastSession(ctx context.Context, userID string, game domain.Game, playtype domain.Playtype) (*domain.SessionDocument, error) {
	lastKey := buildKey(sessionLastIdxPrefix, userID, string(game), string(playtype))

	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lastKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get last session pointer: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}
