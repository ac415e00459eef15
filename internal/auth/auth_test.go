package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
)

func TestHashAndVerifyAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "tachi_"))

	hash, err := HashAPIKey(key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyAPIKey(hash, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyAPIKey(hash, "tachi_wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAPIKey_GarbageHash(t *testing.T) {
	ok, err := VerifyAPIKey("not-a-hash", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashAPIKey_Empty(t *testing.T) {
	_, err := HashAPIKey("")
	assert.Error(t, err)
}

func TestLoadOrGenerateKey_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	// Second call must load the same key, not generate a new one.
	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenRoundtrip(t *testing.T) {
	key, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := NewTokenService(hex.EncodeToString(key), time.Hour)
	require.NoError(t, err)

	user := &domain.User{ID: "user_1", Username: "zkldi", IsAdmin: true}
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "zkldi", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyToken_WrongKey(t *testing.T) {
	keyA, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	keyB, err := LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	issuer, err := NewTokenService(hex.EncodeToString(keyA), time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenService(hex.EncodeToString(keyB), time.Hour)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(&domain.User{ID: "user_1"})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	assert.Error(t, err)
}
