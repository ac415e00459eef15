package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var ErrPBNotFound = errors.New("personal best not found")

// UpsertPB stores the merged personal best for a user+chart.
func (s *Store) UpsertPB(_ context.Context, pb *domain.PBDocument) error {
	return s.set(buildKey(pbPrefix, pb.UserID, pb.ChartID), pb)
}

// GetPB retrieves the personal best for a user+chart.
func (s *Store) GetPB(_ context.Context, userID, chartID string) (*domain.PBDocument, error) {
	var pb domain.PBDocument
	if err := s.get(buildKey(pbPrefix, userID, chartID), &pb); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrPBNotFound
		}
		return nil, fmt.Errorf("get pb: %w", err)
	}
	return &pb, nil
}

// GetPBsForUser returns all personal bests owned by a user.
func (s *Store) GetPBsForUser(_ context.Context, userID string) ([]*domain.PBDocument, error) {
	return listPrefix[domain.PBDocument](s, pbPrefix+userID+":")
}
