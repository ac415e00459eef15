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
	ErrScoreNotFound = errors.New("score not found")
	ErrScoreExists   = errors.New("score already exists")
)

// CreateScore persists a new score document and its per-user index entry.
func (s *Store) CreateScore(_ context.Context, score *domain.ScoreDocument) error {
	key := buildKey(scorePrefix, score.ScoreID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check score exists: %w", err)
	}
	if exists {
		return ErrScoreExists
	}

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(score)
		if err != nil {
			return fmt.Errorf("marshal score: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		idxKey := buildKey(scoreUserIdxPrefix, score.UserID, score.ScoreID)
		return txn.Set(idxKey, []byte(score.ScoreID))
	})
}

// CreateScores persists a batch of scores in one transaction batch.
// Used by the import pipeline after conversion.
func (s *Store) CreateScores(ctx context.Context, scores []*domain.ScoreDocument) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, score := range scores {
		data, err := json.Marshal(score)
		if err != nil {
			return fmt.Errorf("marshal score %s: %w", score.ScoreID, err)
		}
		if err := wb.Set(buildKey(scorePrefix, score.ScoreID), data); err != nil {
			return err
		}
		idxKey := buildKey(scoreUserIdxPrefix, score.UserID, score.ScoreID)
		if err := wb.Set(idxKey, []byte(score.ScoreID)); err != nil {
			return err
		}
	}

	return wb.Flush()
}

// GetScore retrieves a score by ID.
func (s *Store) GetScore(_ context.Context, scoreID string) (*domain.ScoreDocument, error) {
	var score domain.ScoreDocument
	if err := s.get(buildKey(scorePrefix, scoreID), &score); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("get score: %w", err)
	}
	return &score, nil
}

// GetScoresForUserChart returns all of a user's scores on one chart.
func (s *Store) GetScoresForUserChart(ctx context.Context, userID, chartID string) ([]*domain.ScoreDocument, error) {
	scores, err := s.GetScoresForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := scores[:0]
	for _, score := range scores {
		if score.ChartID == chartID {
			filtered = append(filtered, score)
		}
	}
	return filtered, nil
}

// GetScoresForUser returns all scores owned by a user via the user index.
func (s *Store) GetScoresForUser(_ context.Context, userID string) ([]*domain.ScoreDocument, error) {
	prefix := buildKey(scoreUserIdxPrefix, userID, "")
	var scoreIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				scoreIDs = append(scoreIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user scores: %w", err)
	}

	scores := make([]*domain.ScoreDocument, 0, len(scoreIDs))
	for _, scoreID := range scoreIDs {
		score, err := s.GetScore(context.Background(), scoreID)
		if errors.Is(err, ErrScoreNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return scores, nil
}
