package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func testScore(scoreID, userID, chartID string) *domain.ScoreDocument {
	return &domain.ScoreDocument{
		ScoreID:  scoreID,
		ChartID:  chartID,
		SongID:   "song_1",
		UserID:   userID,
		Game:     "iidx",
		Playtype: domain.PlaytypeSP,
		Score:    2400,
		Percent:  92.5,
		Lamp:     domain.LampClear,
		Service:  "test-service",
	}
}

func TestCreateScore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	score := testScore("score_test1", "user_1", "chart_1")

	err := store.CreateScore(ctx, score)
	require.NoError(t, err)

	retrieved, err := store.GetScore(ctx, "score_test1")
	require.NoError(t, err)
	assert.Equal(t, score.ScoreID, retrieved.ScoreID)
	assert.Equal(t, score.UserID, retrieved.UserID)
	assert.Equal(t, score.Score, retrieved.Score)
	assert.Equal(t, score.Lamp, retrieved.Lamp)
}

func TestCreateScore_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	score := testScore("score_dup", "user_1", "chart_1")

	require.NoError(t, store.CreateScore(ctx, score))

	err := store.CreateScore(ctx, score)
	assert.ErrorIs(t, err, ErrScoreExists)
}

func TestGetScore_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetScore(context.Background(), "score_missing")
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestCreateScores_Batch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	scores := []*domain.ScoreDocument{
		testScore("score_a", "user_1", "chart_1"),
		testScore("score_b", "user_1", "chart_2"),
		testScore("score_c", "user_2", "chart_1"),
	}

	require.NoError(t, store.CreateScores(ctx, scores))

	user1Scores, err := store.GetScoresForUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, user1Scores, 2)

	user2Scores, err := store.GetScoresForUser(ctx, "user_2")
	require.NoError(t, err)
	assert.Len(t, user2Scores, 1)
}

func TestGetScoresForUserChart(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateScores(ctx, []*domain.ScoreDocument{
		testScore("score_a", "user_1", "chart_1"),
		testScore("score_b", "user_1", "chart_1"),
		testScore("score_c", "user_1", "chart_2"),
	}))

	scores, err := store.GetScoresForUserChart(ctx, "user_1", "chart_1")
	require.NoError(t, err)
	assert.Len(t, scores, 2)
	for _, score := range scores {
		assert.Equal(t, "chart_1", score.ChartID)
	}
}

func TestGetScoresForUser_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	scores, err := store.GetScoresForUser(context.Background(), "user_nobody")
	require.NoError(t, err)
	assert.Empty(t, scores)
}
