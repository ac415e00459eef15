package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/store"
)

// MilestoneService re-evaluates milestone subscriptions after goal
// evaluation has run.
type MilestoneService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewMilestoneService creates a new milestone service.
func NewMilestoneService(store *store.Store, logger *slog.Logger) *MilestoneService {
	return &MilestoneService{
		store:  store,
		logger: logger,
	}
}

// EvaluateMilestones re-checks every subscribed milestone containing a
// goal that just changed, updates subscriptions and returns the deltas.
// With no goal deltas there is nothing to do.
func (s *MilestoneService) EvaluateMilestones(ctx context.Context, goalInfo []domain.GoalImportInfo, game domain.Game, _ []domain.Playtype, userID string, log *slog.Logger) ([]domain.MilestoneImportInfo, error) {
	if len(goalInfo) == 0 {
		return nil, nil
	}

	changedGoals := make(map[string]struct{}, len(goalInfo))
	for _, delta := range goalInfo {
		changedGoals[delta.GoalID] = struct{}{}
	}

	subs, err := s.store.GetMilestoneSubscriptionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load milestone subscriptions: %w", err)
	}

	goalSubs, err := s.store.GetGoalSubscriptionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal subscriptions: %w", err)
	}
	achievedGoals := make(map[string]bool, len(goalSubs))
	for _, goalSub := range goalSubs {
		achievedGoals[goalSub.GoalID] = goalSub.Achieved
	}

	var info []domain.MilestoneImportInfo
	for _, sub := range subs {
		milestone, err := s.store.GetMilestone(ctx, sub.MilestoneID)
		if errors.Is(err, store.ErrMilestoneNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load milestone %s: %w", sub.MilestoneID, err)
		}

		if milestone.Game != game || !containsChangedGoal(milestone.GoalIDs, changedGoals) {
			continue
		}

		progress := 0
		for _, goalID := range milestone.GoalIDs {
			if achievedGoals[goalID] {
				progress++
			}
		}

		required := milestone.Required
		if required <= 0 || required > len(milestone.GoalIDs) {
			required = len(milestone.GoalIDs)
		}
		achieved := progress >= required

		if progress == sub.Progress && achieved == sub.Achieved {
			continue
		}

		delta := domain.MilestoneImportInfo{
			MilestoneID: milestone.MilestoneID,
			OldProgress: sub.Progress,
			NewProgress: progress,
			OldAchieved: sub.Achieved,
			NewAchieved: achieved,
		}

		sub.Progress = progress
		sub.OutOf = required
		sub.Achieved = achieved
		if err := s.store.UpsertMilestoneSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("update milestone subscription %s: %w", milestone.MilestoneID, err)
		}

		info = append(info, delta)
	}

	log.Debug("evaluated milestones", "subscriptions", len(subs), "changed", len(info))
	return info, nil
}

func containsChangedGoal(goalIDs []string, changed map[string]struct{}) bool {
	for _, goalID := range goalIDs {
		if _, ok := changed[goalID]; ok {
			return true
		}
	}
	return false
}
