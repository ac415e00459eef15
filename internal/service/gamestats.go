package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/store"
)

// ratingWindow is how many of a user's best PBs feed their rating.
const ratingWindow = 20

// danThresholds maps rating floors to dan indices, checked from the
// top down.
var danThresholds = []struct {
	rating float64
	dan    int
}{
	{95, 10},
	{90, 9},
	{85, 8},
	{80, 7},
	{75, 6},
	{70, 5},
	{60, 4},
	{50, 3},
	{40, 2},
	{25, 1},
}

// GameStatsService recomputes user-level aggregate statistics for one
// game:playtype and reports class changes.
type GameStatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGameStatsService creates a new game stats service.
func NewGameStatsService(store *store.Store, logger *slog.Logger) *GameStatsService {
	return &GameStatsService{
		store:  store,
		logger: logger,
	}
}

// UpdateGameStats recomputes rating and classes for one game:playtype
// from the user's PBs, persists the result, and returns the class
// deltas relative to the previously stored stats.
func (s *GameStatsService) UpdateGameStats(ctx context.Context, game domain.Game, playtype domain.Playtype, userID string, log *slog.Logger) ([]domain.ClassDelta, error) {
	pbs, err := s.store.GetPBsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pbs: %w", err)
	}

	rating := computeRating(pbs, game, playtype)
	classes := computeClasses(rating)

	old, err := s.store.GetGameStats(ctx, userID, game, playtype)
	if err != nil && !errors.Is(err, store.ErrGameStatsNotFound) {
		return nil, fmt.Errorf("load previous stats: %w", err)
	}

	var deltas []domain.ClassDelta
	for set, newIndex := range classes {
		oldIndex := -1
		if old != nil {
			if prev, ok := old.Classes[set]; ok {
				oldIndex = prev
			}
		}
		if oldIndex != newIndex {
			deltas = append(deltas, domain.ClassDelta{
				Game:     game,
				Playtype: playtype,
				Set:      set,
				Old:      oldIndex,
				New:      newIndex,
			})
		}
	}

	stats := &domain.UserGameStats{
		UserID:   userID,
		Game:     game,
		Playtype: playtype,
		Rating:   rating,
		Classes:  classes,
	}
	if err := s.store.UpsertGameStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("persist stats: %w", err)
	}

	log.Debug("updated game stats",
		"game", string(game),
		"playtype", string(playtype),
		"rating", rating,
		"class_changes", len(deltas),
	)

	return deltas, nil
}

// computeRating averages the percent of the user's best PBs for this
// game:playtype, over a fixed window so early accounts aren't punished
// for having few scores.
func computeRating(pbs []*domain.PBDocument, game domain.Game, playtype domain.Playtype) float64 {
	var percents []float64
	for _, pb := range pbs {
		if pb.Game == game && pb.Playtype == playtype {
			percents = append(percents, pb.Percent)
		}
	}
	if len(percents) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(percents)))
	if len(percents) > ratingWindow {
		percents = percents[:ratingWindow]
	}

	var sum float64
	for _, p := range percents {
		sum += p
	}
	return sum / float64(len(percents))
}

func computeClasses(rating float64) map[string]int {
	classes := map[string]int{}
	for _, threshold := range danThresholds {
		if rating >= threshold.rating {
			classes["dan"] = threshold.dan
			break
		}
	}
	return classes
}
