package service

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/store"
)

func setupTest(t *testing.T) (*store.Store, *slog.Logger, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tachi-service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, slog.New(slog.NewTextHandler(io.Discard, nil)), cleanup
}
