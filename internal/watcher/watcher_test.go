package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDropFile(t *testing.T) {
	assert.True(t, isDropFile("/drop/user_1.json"))
	assert.True(t, isDropFile("/drop/USER.JSON"))
	assert.False(t, isDropFile("/drop/user_1.json.tmp"))
	assert.False(t, isDropFile("/drop/notes.txt"))
}

func TestWatcher_PicksUpSettledFile(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := New(dir, 50*time.Millisecond, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()
	defer func() {
		cancel()
		_ = w.Stop()
	}()

	path := filepath.Join(dir, "user_1.import.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":{}}`), 0o644))

	select {
	case event := <-w.Events():
		assert.Equal(t, path, event.Path)
		assert.Positive(t, event.Size)
	case <-time.After(3 * time.Second):
		t.Fatal("settled file was never reported")
	}
}

func TestWatcher_IgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := New(dir, 50*time.Millisecond, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()
	defer func() {
		cancel()
		_ = w.Stop()
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))

	select {
	case event := <-w.Events():
		t.Fatalf("unexpected event for %s", event.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_PicksUpPreexistingFiles(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	path := filepath.Join(dir, "user_1.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	w, err := New(dir, 50*time.Millisecond, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()
	defer func() {
		cancel()
		_ = w.Stop()
	}()

	select {
	case event := <-w.Events():
		assert.Equal(t, path, event.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("preexisting file was never reported")
	}
}
