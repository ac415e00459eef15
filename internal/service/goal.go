package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/store"
)

// GoalService re-evaluates a user's goal subscriptions after an import.
type GoalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store *store.Store, logger *slog.Logger) *GoalService {
	return &GoalService{
		store:  store,
		logger: logger,
	}
}

// EvaluateGoals re-checks every subscribed goal whose chart set
// intersects the charts this import touched, updates subscriptions and
// returns the resulting deltas. Goals untouched by the import are
// skipped; their progress cannot have changed.
func (s *GoalService) EvaluateGoals(ctx context.Context, game domain.Game, userID string, chartIDs []string, log *slog.Logger) ([]domain.GoalImportInfo, error) {
	subs, err := s.store.GetGoalSubscriptionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal subscriptions: %w", err)
	}

	touched := make(map[string]struct{}, len(chartIDs))
	for _, chartID := range chartIDs {
		touched[chartID] = struct{}{}
	}

	var info []domain.GoalImportInfo
	for _, sub := range subs {
		goal, err := s.store.GetGoal(ctx, sub.GoalID)
		if errors.Is(err, store.ErrGoalNotFound) {
			// Orphaned subscription; nothing to evaluate.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load goal %s: %w", sub.GoalID, err)
		}

		if goal.Game != game || !intersectsCharts(goal.ChartIDs, touched) {
			continue
		}

		progress, outOf, err := s.evaluateGoal(ctx, userID, goal)
		if err != nil {
			return nil, fmt.Errorf("evaluate goal %s: %w", goal.GoalID, err)
		}
		achieved := progress >= outOf

		if progress == sub.Progress && achieved == sub.Achieved {
			continue
		}

		delta := domain.GoalImportInfo{
			GoalID:      goal.GoalID,
			OldProgress: sub.Progress,
			NewProgress: progress,
			OldAchieved: sub.Achieved,
			NewAchieved: achieved,
		}

		sub.Progress = progress
		sub.OutOf = outOf
		sub.Achieved = achieved
		if err := s.store.UpsertGoalSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("update goal subscription %s: %w", goal.GoalID, err)
		}

		info = append(info, delta)
	}

	log.Debug("evaluated goals", "subscriptions", len(subs), "changed", len(info))
	return info, nil
}

// evaluateGoal counts how many of the goal's charts have a PB meeting
// its criteria.
func (s *GoalService) evaluateGoal(ctx context.Context, userID string, goal *domain.Goal) (progress, outOf int, err error) {
	outOf = goal.OutOf
	if outOf <= 0 || outOf > len(goal.ChartIDs) {
		outOf = len(goal.ChartIDs)
	}

	for _, chartID := range goal.ChartIDs {
		pb, err := s.store.GetPB(ctx, userID, chartID)
		if errors.Is(err, store.ErrPBNotFound) {
			continue
		}
		if err != nil {
			return 0, 0, err
		}

		if goalMet(goal, pb) {
			progress++
		}
	}

	return progress, outOf, nil
}

func goalMet(goal *domain.Goal, pb *domain.PBDocument) bool {
	switch goal.Criteria {
	case domain.GoalCriteriaScore:
		return pb.Score >= goal.ScoreGte
	case domain.GoalCriteriaLamp:
		return domain.LampIndex(pb.Lamp) >= domain.LampIndex(goal.LampGte)
	default:
		return false
	}
}

func intersectsCharts(chartIDs []string, touched map[string]struct{}) bool {
	for _, chartID := range chartIDs {
		if _, ok := touched[chartID]; ok {
			return true
		}
	}
	return false
}
