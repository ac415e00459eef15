// Package search provides a Bleve-backed chart index used to resolve
// song titles from batch-manual imports to chart documents.
package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/Adamaq01/Tachi/internal/domain"
)

// mappingVersion is incremented whenever the index mapping changes,
// triggering an automatic rebuild on startup.
const mappingVersion = "1"

// ChartIndex wraps a Bleve index over chart documents.
//
// Thread safety: all public methods are safe for concurrent use. The
// mutex protects against index corruption during rebuild operations.
type ChartIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the chart index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (uses stderr if nil)
}

// NewChartIndex creates or opens the chart index. A corrupted index or
// one built with an outdated mapping is removed and recreated.
func NewChartIndex(opts Options) (*ChartIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "charts.bleve")
	versionPath := filepath.Join(opts.DataPath, "charts.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existingVersion) != mappingVersion {
			logger.Info("chart index mapping outdated, will rebuild",
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing chart index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0644); writeErr != nil {
			logger.Warn("failed to write chart index version file", "error", writeErr)
		}
		logger.Info("created new chart index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened existing chart index", "path", indexPath)
	}

	return &ChartIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (c *ChartIndex) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Close()
}

func chartToMap(chart *domain.ChartDocument) map[string]any {
	return map[string]any{
		"chart_id":   chart.ChartID,
		"song_id":    chart.SongID,
		"song_title": chart.SongTitle,
		"norm_title": NormalizeTitle(chart.SongTitle),
		"game":       string(chart.Game),
		"playtype":   string(chart.Playtype),
		"difficulty": chart.Difficulty,
	}
}

// IndexChart indexes a single chart.
func (c *ChartIndex) IndexChart(chart *domain.ChartDocument) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.Index(chart.ChartID, chartToMap(chart))
}

// IndexCharts indexes charts in batches. Chunking keeps memory flat
// when seeding a full game's chart set.
func (c *ChartIndex) IndexCharts(charts []*domain.ChartDocument) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	const batchSize = 500

	for i := 0; i < len(charts); i += batchSize {
		end := min(i+batchSize, len(charts))

		batch := c.index.NewBatch()
		for _, chart := range charts[i:end] {
			if err := batch.Index(chart.ChartID, chartToMap(chart)); err != nil {
				return fmt.Errorf("batch index %s: %w", chart.ChartID, err)
			}
		}

		if err := c.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// DocumentCount returns the total number of indexed charts.
func (c *ChartIndex) DocumentCount() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.DocCount()
}

// Rebuild drops the index and reindexes the given charts from scratch.
// Acquires an exclusive lock and blocks all other operations.
func (c *ChartIndex) Rebuild(charts []*domain.ChartDocument) error {
	c.mu.Lock()
	if err := c.index.Close(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(c.path); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := bleve.New(c.path, buildIndexMapping())
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("create index: %w", err)
	}
	c.index = index
	c.mu.Unlock()

	if err := c.IndexCharts(charts); err != nil {
		return err
	}

	c.logger.Info("rebuilt chart index", "path", c.path, "charts", len(charts))
	return nil
}
