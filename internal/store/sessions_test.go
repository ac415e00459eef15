package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func TestUpsertSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	session := &domain.SessionDocument{
		SessionID:   "ses_test1",
		UserID:      "user_1",
		Game:        domain.GameIIDX,
		Playtype:    domain.PlaytypeSP,
		Name:        "Morning Session",
		ScoreIDs:    []string{"score_a", "score_b"},
		TimeStarted: 1000,
		TimeEnded:   2000,
	}

	require.NoError(t, store.UpsertSession(ctx, session))

	retrieved, err := store.GetSession(ctx, "ses_test1")
	require.NoError(t, err)
	assert.Equal(t, session.Name, retrieved.Name)
	assert.Equal(t, session.ScoreIDs, retrieved.ScoreIDs)
}

func TestGetLastSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first := &domain.SessionDocument{
		SessionID: "ses_first",
		UserID:    "user_1",
		Game:      domain.GameIIDX,
		Playtype:  domain.PlaytypeSP,
	}
	second := &domain.SessionDocument{
		SessionID: "ses_second",
		UserID:    "user_1",
		Game:      domain.GameIIDX,
		Playtype:  domain.PlaytypeSP,
	}

	require.NoError(t, store.UpsertSession(ctx, first))
	require.NoError(t, store.UpsertSession(ctx, second))

	last, err := store.GetLastSession(ctx, "user_1", domain.GameIIDX, domain.PlaytypeSP)
	require.NoError(t, err)
	assert.Equal(t, "ses_second", last.SessionID)
}

func TestGetLastSession_ScopedByPlaytype(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sp := &domain.SessionDocument{
		SessionID: "ses_sp",
		UserID:    "user_1",
		Game:      domain.GameIIDX,
		Playtype:  domain.PlaytypeSP,
	}
	dp := &domain.SessionDocument{
		SessionID: "ses_dp",
		UserID:    "user_1",
		Game:      domain.GameIIDX,
		Playtype:  domain.PlaytypeDP,
	}

	require.NoError(t, store.UpsertSession(ctx, sp))
	require.NoError(t, store.UpsertSession(ctx, dp))

	last, err := store.GetLastSession(ctx, "user_1", domain.GameIIDX, domain.PlaytypeSP)
	require.NoError(t, err)
	assert.Equal(t, "ses_sp", last.SessionID)
}

func TestGetLastSession_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetLastSession(context.Background(), "user_new", domain.GameIIDX, domain.PlaytypeSP)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
