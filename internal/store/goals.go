package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/Adamaq01/Tachi/internal/domain"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
)

// CreateGoal stores a goal definition.
func (s *Store) CreateGoal(_ context.Context, goal *domain.Goal) error {
	return s.set(buildKey(goalPrefix, goal.GoalID), goal)
}

// GetGoal retrieves a goal by ID.
func (s *Store) GetGoal(_ context.Context, goalID string) (*domain.Goal, error) {
	var goal domain.Goal
	if err := s.get(buildKey(goalPrefix, goalID), &goal); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// UpsertGoalSubscription stores a user's subscription to a goal.
func (s *Store) UpsertGoalSubscription(_ context.Context, sub *domain.GoalSubscription) error {
	return s.set(buildKey(goalSubPrefix, sub.UserID, sub.GoalID), sub)
}

// GetGoalSubscriptionsForUser returns all goal subscriptions for a user.
func (s *Store) GetGoalSubscriptionsForUser(_ context.Context, userID string) ([]*domain.GoalSubscription, error) {
	return listPrefix[domain.GoalSubscription](s, goalSubPrefix+userID+":")
}

// CreateMilestone stores a milestone definition.
func (s *Store) CreateMilestone(_ context.Context, milestone *domain.Milestone) error {
	return s.set(buildKey(milestonePrefix, milestone.MilestoneID), milestone)
}

// GetMilestone retrieves a milestone by ID.
func (s *Store) GetMilestone(_ context.Context, milestoneID string) (*domain.Milestone, error) {
	var milestone domain.Milestone
	if err := s.get(buildKey(milestonePrefix, milestoneID), &milestone); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return &milestone, nil
}

// UpsertMilestoneSubscription stores a user's subscription to a milestone.
func (s *Store) UpsertMilestoneSubscription(_ context.Context, sub *domain.MilestoneSubscription) error {
	return s.set(buildKey(milestoneSubPrefix, sub.UserID, sub.MilestoneID), sub)
}

// GetMilestoneSubscriptionsForUser returns all milestone subscriptions
// for a user.
func (s *Store) GetMilestoneSubscriptionsForUser(_ context.Context, userID string) ([]*domain.MilestoneSubscription, error) {
	return listPrefix[domain.MilestoneSubscription](s, milestoneSubPrefix+userID+":")
}
