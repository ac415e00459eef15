package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/Adamaq01/Tachi/internal/config"
	"github.com/Adamaq01/Tachi/internal/importers/batchmanual"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/logger"
	"github.com/Adamaq01/Tachi/internal/processor"
	"github.com/Adamaq01/Tachi/internal/watcher"
)

// DropWatcherHandle wraps the drop-directory watcher with shutdown
// capability. Watcher is nil when no drop path is configured.
type DropWatcherHandle struct {
	*watcher.DropWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DropWatcherHandle) Shutdown() error {
	if h.DropWatcher == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideDropWatcher provides the import drop-directory watcher.
func ProvideDropWatcher(i do.Injector) (*DropWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.DropPath == "" {
		log.Info("Import drop directory not configured, watcher disabled")
		return &DropWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Import.DropPath, watcher.DefaultSettleDelay, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Drop watcher error", "error", err)
		}
	}()

	log.Info("Watching import drop directory", "path", cfg.Import.DropPath)

	return &DropWatcherHandle{DropWatcher: w, cancel: cancel}, nil
}

// DropProcessorHandle wraps the drop processor with shutdown capability.
type DropProcessorHandle struct {
	*processor.DropProcessor
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DropProcessorHandle) Shutdown() error {
	if h.DropProcessor == nil {
		return nil
	}
	h.cancel()
	return nil
}

// ProvideDropProcessor provides the worker that imports dropped files.
func ProvideDropProcessor(i do.Injector) (*DropProcessorHandle, error) {
	watcherHandle := do.MustInvoke[*DropWatcherHandle](i)
	if watcherHandle.DropWatcher == nil {
		return &DropProcessorHandle{}, nil
	}

	storeHandle := do.MustInvoke[*StoreHandle](i)
	importer := do.MustInvoke[*batchmanual.Importer](i)
	orchestrator := do.MustInvoke[*importing.Orchestrator](i)
	log := do.MustInvoke[*logger.Logger](i)

	p := processor.New(watcherHandle.Events(), importer, orchestrator, storeHandle.Store, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	return &DropProcessorHandle{DropProcessor: p, cancel: cancel}, nil
}
