package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/store"
)

func seedPB(t *testing.T, s *store.Store, chartID string, percent float64) {
	t.Helper()
	require.NoError(t, s.UpsertPB(context.Background(), &domain.PBDocument{
		UserID:   "user_1",
		ChartID:  chartID,
		Game:     domain.GameIIDX,
		Playtype: domain.PlaytypeSP,
		Percent:  percent,
	}))
}

func TestUpdateGameStats_FirstImport(t *testing.T) {
	s, log, cleanup := setupTest(t)
	defer cleanup()

	seedPB(t, s, "chart_1", 90)
	seedPB(t, s, "chart_2", 80)

	svc := NewGameStatsService(s, log)
	deltas, err := svc.UpdateGameStats(context.Background(), domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)

	// Rating 85 → dan 8, newly attained so Old is -1.
	require.Len(t, deltas, 1)
	assert.Equal(t, "dan", deltas[0].Set)
	assert.Equal(t, -1, deltas[0].Old)
	assert.Equal(t, 8, deltas[0].New)

	stats, err := s.GetGameStats(context.Background(), "user_1", domain.GameIIDX, domain.PlaytypeSP)
	require.NoError(t, err)
	assert.InDelta(t, 85, stats.Rating, 1e-9)
}

func TestUpdateGameStats_NoChangeNoDeltas(t *testing.T) {
	s, log, cleanup := setupTest(t)
	defer cleanup()

	seedPB(t, s, "chart_1", 90)

	svc := NewGameStatsService(s, log)
	ctx := context.Background()

	_, err := svc.UpdateGameStats(ctx, domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)

	deltas, err := svc.UpdateGameStats(ctx, domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestUpdateGameStats_ClassPromotion(t *testing.T) {
	s, log, cleanup := setupTest(t)
	defer cleanup()

	svc := NewGameStatsService(s, log)
	ctx := context.Background()

	seedPB(t, s, "chart_1", 60)
	_, err := svc.UpdateGameStats(ctx, domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)

	// A stronger PB set pushes the rating, and with it the dan, up.
	seedPB(t, s, "chart_1", 96)
	seedPB(t, s, "chart_2", 96)
	deltas, err := svc.UpdateGameStats(ctx, domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)

	require.Len(t, deltas, 1)
	assert.Equal(t, 4, deltas[0].Old)
	assert.Equal(t, 10, deltas[0].New)
}

func TestUpdateGameStats_NoPBs(t *testing.T) {
	s, log, cleanup := setupTest(t)
	defer cleanup()

	svc := NewGameStatsService(s, log)
	deltas, err := svc.UpdateGameStats(context.Background(), domain.GameIIDX, domain.PlaytypeSP, "user_1", log)
	require.NoError(t, err)
	assert.Empty(t, deltas)

	stats, err := s.GetGameStats(context.Background(), "user_1", domain.GameIIDX, domain.PlaytypeSP)
	require.NoError(t, err)
	assert.Zero(t, stats.Rating)
}

func TestComputeRating_WindowCapsContributions(t *testing.T) {
	var pbs []*domain.PBDocument
	for range 30 {
		pbs = append(pbs, &domain.PBDocument{Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Percent: 100})
	}
	// Weak scores beyond the window must not dilute the rating.
	for range 10 {
		pbs = append(pbs, &domain.PBDocument{Game: domain.GameIIDX, Playtype: domain.PlaytypeSP, Percent: 10})
	}

	assert.InDelta(t, 100, computeRating(pbs, domain.GameIIDX, domain.PlaytypeSP), 1e-9)
}
