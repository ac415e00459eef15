package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var ErrGameStatsNotFound = errors.New("game stats not found")

// UpsertGameStats stores a user's aggregate stats for one game:playtype.
func (s *Store) UpsertGameStats(_ context.Context, stats *domain.UserGameStats) error {
	key := buildKey(gameStatsPrefix, stats.UserID, string(stats.Game), string(stats.Playtype))
	return s.set(key, stats)
}

// GetGameStats retrieves a user's stats for one game:playtype.
func (s *Store) GetGameStats(_ context.Context, userID string, game domain.Game, playtype domain.Playtype) (*domain.UserGameStats, error) {
	var stats domain.UserGameStats
	key := buildKey(gameStatsPrefix, userID, string(game), string(playtype))
	if err := s.get(key, &stats); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrGameStatsNotFound
		}
		return nil, fmt.Errorf("get game stats: %w", err)
	}
	return &stats, nil
}

// GetGameStatsForUser returns all of a user's per-game stats.
func (s *Store) GetGameStatsForUser(_ context.Context, userID string) ([]*domain.UserGameStats, error) {
	return listPrefix[domain.UserGameStats](s, gameStatsPrefix+userID+":")
}
