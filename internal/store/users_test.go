package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func TestCreateUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	user := &domain.User{
		ID:         "user_test1",
		Username:   "zkldi",
		APIKeyHash: "$argon2id$v=19$...",
		CreatedAt:  time.Now(),
	}

	require.NoError(t, store.CreateUser(ctx, user))

	retrieved, err := store.GetUser(ctx, "user_test1")
	require.NoError(t, err)
	assert.Equal(t, user.Username, retrieved.Username)
	assert.Equal(t, user.APIKeyHash, retrieved.APIKeyHash)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "user_1", Username: "taken"}))

	err := store.CreateUser(ctx, &domain.User{ID: "user_2", Username: "taken"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestGetUserByUsername(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &domain.User{ID: "user_1", Username: "alice"}))

	user, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_1", user.ID)

	_, err = store.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
