package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/store"
)

// PBService recomputes personal bests. Score and lamp are merged
// independently across all of a user's scores on a chart, so a PB may
// be composed from two different plays.
type PBService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewPBService creates a new personal best service.
func NewPBService(store *store.Store, logger *slog.Logger) *PBService {
	return &PBService{
		store:  store,
		logger: logger,
	}
}

// UpdatePBs recomputes the personal best for every chart in chartIDs.
func (s *PBService) UpdatePBs(ctx context.Context, userID string, chartIDs []string, log *slog.Logger) error {
	for _, chartID := range chartIDs {
		if err := s.updatePB(ctx, userID, chartID); err != nil {
			return fmt.Errorf("update pb for chart %s: %w", chartID, err)
		}
	}

	log.Debug("recomputed personal bests", "charts", len(chartIDs))
	return nil
}

func (s *PBService) updatePB(ctx context.Context, userID, chartID string) error {
	scores, err := s.store.GetScoresForUserChart(ctx, userID, chartID)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}

	pb := MergePB(scores)
	return s.store.UpsertPB(ctx, pb)
}

// MergePB folds a non-empty score list into one PB document. The best
// score and the best lamp are selected independently.
func MergePB(scores []*domain.ScoreDocument) *domain.PBDocument {
	bestScore := scores[0]
	bestLamp := scores[0]

	for _, score := range scores[1:] {
		if score.Score > bestScore.Score {
			bestScore = score
		}
		if domain.LampIndex(score.Lamp) > domain.LampIndex(bestLamp.Lamp) {
			bestLamp = score
		}
	}

	return &domain.PBDocument{
		UserID:   bestScore.UserID,
		ChartID:  bestScore.ChartID,
		SongID:   bestScore.SongID,
		Game:     bestScore.Game,
		Playtype: bestScore.Playtype,
		Score:    bestScore.Score,
		Percent:  bestScore.Percent,
		Lamp:     bestLamp.Lamp,
		ComposedFrom: domain.PBComposition{
			ScorePB: bestScore.ScoreID,
			LampPB:  bestLamp.ScoreID,
		},
	}
}
