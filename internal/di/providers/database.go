package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/Adamaq01/Tachi/internal/config"
	"github.com/Adamaq01/Tachi/internal/logger"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/store"
	"github.com/Adamaq01/Tachi/internal/telemetry"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// SearchIndexHandle wraps the chart index with shutdown capability.
type SearchIndexHandle struct {
	*search.ChartIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideChartIndex provides the bleve chart search index, rebuilding it
// from the store when it comes up empty (fresh install or mapping bump).
func ProvideChartIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	idx, err := search.NewChartIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	count, err := idx.DocumentCount()
	if err == nil && count == 0 {
		charts, listErr := storeHandle.ListAllCharts(context.Background())
		if listErr == nil && len(charts) > 0 {
			log.Info("Rebuilding chart index from store", "charts", len(charts))
			if rebuildErr := idx.Rebuild(charts); rebuildErr != nil {
				log.Error("Chart index rebuild failed", "error", rebuildErr)
			}
		}
	}

	return &SearchIndexHandle{ChartIndex: idx}, nil
}

// TelemetryHandle wraps the timing sink with shutdown capability.
type TelemetryHandle struct {
	*telemetry.Sink
}

// Shutdown implements do.Shutdownable.
func (h *TelemetryHandle) Shutdown() error {
	return h.Close()
}

// ProvideTelemetry provides the sqlite import-timing sink.
func ProvideTelemetry(i do.Injector) (*TelemetryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	sink, err := telemetry.Open(filepath.Join(cfg.Data.BasePath, "telemetry.db"), log.Logger)
	if err != nil {
		return nil, err
	}

	return &TelemetryHandle{Sink: sink}, nil
}
