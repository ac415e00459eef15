package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var ErrChartNotFound = errors.New("chart not found")

// UpsertChart stores a chart document, overwriting any existing one.
func (s *Store) UpsertChart(_ context.Context, chart *domain.ChartDocument) error {
	return s.set(buildKey(chartPrefix, string(chart.Game), chart.ChartID), chart)
}

// GetChart retrieves a chart by game and ID.
func (s *Store) GetChart(_ context.Context, game domain.Game, chartID string) (*domain.ChartDocument, error) {
	var chart domain.ChartDocument
	if err := s.get(buildKey(chartPrefix, string(game), chartID), &chart); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, fmt.Errorf("get chart: %w", err)
	}
	return &chart, nil
}

// ListChartsForGame returns every chart registered for a game.
func (s *Store) ListChartsForGame(_ context.Context, game domain.Game) ([]*domain.ChartDocument, error) {
	return listPrefix[domain.ChartDocument](s, chartPrefix+string(game)+":")
}

// ListAllCharts returns every chart in the store, for index rebuilds.
func (s *Store) ListAllCharts(_ context.Context) ([]*domain.ChartDocument, error) {
	return listPrefix[domain.ChartDocument](s, chartPrefix)
}
