// Package processor drives imports for files landing in the drop
// directory. File names follow <username>.<anything>.json; the user is
// resolved by name and the file imported as file/batch-manual.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Adamaq01/Tachi/internal/domain"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/store"
	"github.com/Adamaq01/Tachi/internal/watcher"
)

// Subdirectories files are moved into after processing.
const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Acquirer builds pipeline acquisitions from raw payloads.
type Acquirer interface {
	Acquire(userID string, importType domain.ImportType, payload []byte) importing.AcquireFunc
}

// Runner executes one import end to end.
type Runner interface {
	Run(ctx context.Context, userID string, userIntent bool, importType domain.ImportType, acquire importing.AcquireFunc) (*domain.ImportDocument, error)
}

// DropProcessor consumes settled drop files and runs imports for them.
type DropProcessor struct {
	events       <-chan watcher.Event
	acquirer     Acquirer
	orchestrator Runner
	store        *store.Store
	logger       *slog.Logger

	inFlight *SyncMap[string, struct{}]
	wg       sync.WaitGroup
}

// New creates a drop processor consuming the given event stream.
func New(events <-chan watcher.Event, acquirer Acquirer, orchestrator Runner, s *store.Store, logger *slog.Logger) *DropProcessor {
	return &DropProcessor{
		events:       events,
		acquirer:     acquirer,
		orchestrator: orchestrator,
		store:        s,
		logger:       logger,
		inFlight:     NewSyncMap[string, struct{}](),
	}
}

// Run consumes events until the context is cancelled, then waits for
// in-flight imports to finish.
func (p *DropProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return
		case event, ok := <-p.events:
			if !ok {
				p.wg.Wait()
				return
			}

			if _, busy := p.inFlight.LoadOrStore(event.Path, struct{}{}); busy {
				continue
			}

			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				defer p.inFlight.Delete(event.Path)
				p.processFile(ctx, event.Path)
			}()
		}
	}
}

func (p *DropProcessor) processFile(ctx context.Context, path string) {
	log := p.logger.With("file", filepath.Base(path))

	username, err := usernameFromFile(path)
	if err != nil {
		log.Warn("rejecting drop file", "error", err)
		p.moveTo(path, failedDir, log)
		return
	}

	user, err := p.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrUserNotFound) {
		log.Warn("drop file for unknown user", "username", username)
		p.moveTo(path, failedDir, log)
		return
	}
	if err != nil {
		log.Error("resolve drop file user", "error", err)
		p.moveTo(path, failedDir, log)
		return
	}

	payload, err := os.ReadFile(path) //#nosec G304 -- path comes from the watched directory
	if err != nil {
		log.Error("read drop file", "error", err)
		p.moveTo(path, failedDir, log)
		return
	}

	acquire := p.acquirer.Acquire(user.ID, domain.ImportTypeFileBatchManual, payload)
	doc, err := p.orchestrator.Run(ctx, user.ID, false, domain.ImportTypeFileBatchManual, acquire)
	if err != nil {
		log.Error("drop file import failed", "user_id", user.ID, "error", err)
		p.moveTo(path, failedDir, log)
		return
	}

	log.Info("drop file imported",
		"user_id", user.ID,
		"import_id", doc.ImportID,
		"scores", len(doc.ScoreIDs),
		"failures", len(doc.Errors),
	)
	p.moveTo(path, processedDir, log)
}

func (p *DropProcessor) moveTo(path, subdir string, log *slog.Logger) {
	target := filepath.Join(filepath.Dir(path), subdir)
	if err := os.MkdirAll(target, 0o750); err != nil {
		log.Warn("create archive directory", "error", err)
		return
	}
	if err := os.Rename(path, filepath.Join(target, filepath.Base(path))); err != nil {
		log.Warn("archive drop file", "error", err)
	}
}

// usernameFromFile extracts the target username from a drop file name.
func usernameFromFile(path string) (string, error) {
	base := filepath.Base(path)
	name, _, found := strings.Cut(base, ".")
	if !found || name == "" {
		return "", fmt.Errorf("file name %q has no username segment", base)
	}
	return name, nil
}
