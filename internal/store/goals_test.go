package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func TestGoalSubscriptions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	goal := &domain.Goal{
		GoalID:   "goal_1",
		Game:     domain.GameIIDX,
		Playtype: domain.PlaytypeSP,
		Name:     "Clear 5 charts",
		ChartIDs: []string{"chart_1", "chart_2", "chart_3", "chart_4", "chart_5"},
		Criteria: domain.GoalCriteriaLamp,
		LampGte:  domain.LampClear,
		OutOf:    5,
	}
	require.NoError(t, store.CreateGoal(ctx, goal))

	sub := &domain.GoalSubscription{
		UserID: "user_1",
		GoalID: "goal_1",
		OutOf:  5,
	}
	require.NoError(t, store.UpsertGoalSubscription(ctx, sub))

	subs, err := store.GetGoalSubscriptionsForUser(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "goal_1", subs[0].GoalID)
	assert.False(t, subs[0].Achieved)

	// Progress updates overwrite in place
	sub.Progress = 5
	sub.Achieved = true
	require.NoError(t, store.UpsertGoalSubscription(ctx, sub))

	subs, err = store.GetGoalSubscriptionsForUser(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Achieved)
}

func TestMilestoneSubscriptions(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	milestone := &domain.Milestone{
		MilestoneID: "ms_1",
		Game:        domain.GameIIDX,
		Playtype:    domain.PlaytypeSP,
		Name:        "Beginner Pack",
		GoalIDs:     []string{"goal_1", "goal_2"},
		Required:    2,
	}
	require.NoError(t, store.CreateMilestone(ctx, milestone))

	retrieved, err := store.GetMilestone(ctx, "ms_1")
	require.NoError(t, err)
	assert.Equal(t, milestone.GoalIDs, retrieved.GoalIDs)

	sub := &domain.MilestoneSubscription{
		UserID:      "user_1",
		MilestoneID: "ms_1",
		OutOf:       2,
	}
	require.NoError(t, store.UpsertMilestoneSubscription(ctx, sub))

	subs, err := store.GetMilestoneSubscriptionsForUser(ctx, "user_1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "ms_1", subs[0].MilestoneID)
}

func TestGameStats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	stats := &domain.UserGameStats{
		UserID:   "user_1",
		Game:     domain.GameIIDX,
		Playtype: domain.PlaytypeSP,
		Rating:   12.5,
		Classes:  map[string]int{"dan": 7},
	}
	require.NoError(t, store.UpsertGameStats(ctx, stats))

	retrieved, err := store.GetGameStats(ctx, "user_1", domain.GameIIDX, domain.PlaytypeSP)
	require.NoError(t, err)
	assert.Equal(t, 12.5, retrieved.Rating)
	assert.Equal(t, 7, retrieved.Classes["dan"])

	all, err := store.GetGameStatsForUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = store.GetGameStats(ctx, "user_1", domain.GameSDVX, domain.PlaytypeSingle)
	assert.ErrorIs(t, err, ErrGameStatsNotFound)
}
