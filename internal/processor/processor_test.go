package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/store"
	"github.com/Adamaq01/Tachi/internal/watcher"
)

type fakeAcquirer struct {
	mu      sync.Mutex
	userIDs []string
}

func (f *fakeAcquirer) Acquire(userID string, _ domain.ImportType, _ []byte) importing.AcquireFunc {
	f.mu.Lock()
	f.userIDs = append(f.userIDs, userID)
	f.mu.Unlock()
	return func(context.Context, *slog.Logger) (*importing.Acquisition, error) {
		return &importing.Acquisition{}, nil
	}
}

type runCall struct {
	userID     string
	importType domain.ImportType
}

type fakeRunner struct {
	mu   sync.Mutex
	runs []runCall
	err  error
}

func (f *fakeRunner) Run(_ context.Context, userID string, _ bool, importType domain.ImportType, _ importing.AcquireFunc) (*domain.ImportDocument, error) {
	f.mu.Lock()
	f.runs = append(f.runs, runCall{userID: userID, importType: importType})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &domain.ImportDocument{ImportID: "imp-test"}, nil
}

func setupProcessorTest(t *testing.T, runner *fakeRunner) (*fakeAcquirer, chan watcher.Event, string, context.CancelFunc) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(filepath.Join(t.TempDir(), "db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.CreateUser(context.Background(), &domain.User{ID: "user_1", Username: "zkldi"}))

	acquirer := &fakeAcquirer{}
	events := make(chan watcher.Event, 4)
	p := New(events, acquirer, runner, s, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return acquirer, events, t.TempDir(), cancel
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 10*time.Millisecond, "expected %s to appear", path)
}

func TestProcessor_ImportsDropFile(t *testing.T) {
	runner := &fakeRunner{}
	acquirer, events, dropDir, _ := setupProcessorTest(t, runner)

	path := filepath.Join(dropDir, "zkldi.scores.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":{}}`), 0o644))

	events <- watcher.Event{Path: path}

	waitForFile(t, filepath.Join(dropDir, processedDir, "zkldi.scores.json"))
	assert.NoFileExists(t, path)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	require.Len(t, runner.runs, 1)
	assert.Equal(t, "user_1", runner.runs[0].userID)
	assert.Equal(t, domain.ImportTypeFileBatchManual, runner.runs[0].importType)

	acquirer.mu.Lock()
	defer acquirer.mu.Unlock()
	assert.Equal(t, []string{"user_1"}, acquirer.userIDs)
}

func TestProcessor_UnknownUserGoesToFailed(t *testing.T) {
	runner := &fakeRunner{}
	_, events, dropDir, _ := setupProcessorTest(t, runner)

	path := filepath.Join(dropDir, "nobody.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	events <- watcher.Event{Path: path}

	waitForFile(t, filepath.Join(dropDir, failedDir, "nobody.json"))

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Empty(t, runner.runs)
}

func TestProcessor_ImportFailureGoesToFailed(t *testing.T) {
	runner := &fakeRunner{err: errors.New("pipeline exploded")}
	_, events, dropDir, _ := setupProcessorTest(t, runner)

	path := filepath.Join(dropDir, "zkldi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	events <- watcher.Event{Path: path}

	waitForFile(t, filepath.Join(dropDir, failedDir, "zkldi.json"))
}

func TestUsernameFromFile(t *testing.T) {
	name, err := usernameFromFile("/drop/zkldi.batch.json")
	require.NoError(t, err)
	assert.Equal(t, "zkldi", name)

	name, err = usernameFromFile("/drop/zkldi.json")
	require.NoError(t, err)
	assert.Equal(t, "zkldi", name)

	_, err = usernameFromFile("/drop/noextension")
	assert.Error(t, err)

	_, err = usernameFromFile("/drop/.json")
	assert.Error(t, err)
}
