// Package watcher monitors the import drop directory for batch-manual
// files. Files are debounced until their size and mtime stop changing,
// so half-copied files never reach the import pipeline.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long a file must stay unchanged before it
// is considered fully written.
const DefaultSettleDelay = 2 * time.Second

// Event is a settled drop file ready for import.
type Event struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// DropWatcher watches one flat directory for JSON drop files.
type DropWatcher struct {
	dir         string
	settleDelay time.Duration
	logger      *slog.Logger
	watcher     *fsnotify.Watcher

	pending map[string]*pendingFile
	mu      sync.Mutex

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher over the given drop directory, creating it if
// missing.
func New(dir string, settleDelay time.Duration, logger *slog.Logger) (*DropWatcher, error) {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create drop directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch drop directory: %w", err)
	}

	return &DropWatcher{
		dir:         dir,
		settleDelay: settleDelay,
		logger:      logger,
		watcher:     fsWatcher,
		pending:     make(map[string]*pendingFile),
		events:      make(chan Event, 64),
		done:        make(chan struct{}),
	}, nil
}

// Events returns the channel of settled drop files.
func (w *DropWatcher) Events() <-chan Event {
	return w.events
}

// Start processes filesystem events until the context is cancelled.
// Files already sitting in the directory at startup are picked up too.
func (w *DropWatcher) Start(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan drop directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && isDropFile(entry.Name()) {
			w.startSettling(filepath.Join(w.dir, entry.Name()))
		}
	}

	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return nil
}

func (w *DropWatcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("drop watcher error", "error", err)
		}
	}
}

func (w *DropWatcher) handleEvent(event fsnotify.Event) {
	if !isDropFile(event.Name) {
		return
	}

	if event.Op&fsnotify.Remove != 0 {
		w.cancelPending(event.Name)
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(event.Name)
	}
}

func (w *DropWatcher) startSettling(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		delete(w.pending, path)
		return
	}

	pending := &pendingFile{
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	pending.timer = time.AfterFunc(w.settleDelay, func() {
		w.checkSettled(path)
	})
	w.pending[path] = pending
}

func (w *DropWatcher) checkSettled(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending, exists := w.pending[path]
	if !exists {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		return
	}

	if info.Size() != pending.size || info.ModTime() != pending.modTime {
		// Still being written, restart the timer.
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.settleDelay, func() {
			w.checkSettled(path)
		})
		return
	}

	delete(w.pending, path)

	select {
	case w.events <- Event{Path: path, Size: info.Size(), ModTime: info.ModTime()}:
	case <-w.done:
	}
}

func (w *DropWatcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
		delete(w.pending, path)
	}
}

// Stop shuts the watcher down and drains internal state.
func (w *DropWatcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	for _, pending := range w.pending {
		pending.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	w.watcher.Close()
	w.wg.Wait()
	close(w.events)

	return nil
}

func isDropFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
