package batchmanual

import (
	"context"
	"encoding/json/v2"
	"log/slog"

	"github.com/Adamaq01/Tachi/internal/domain"
	domainerrors "github.com/Adamaq01/Tachi/internal/errors"
	"github.com/Adamaq01/Tachi/internal/importing"
	"github.com/Adamaq01/Tachi/internal/search"
	"github.com/Adamaq01/Tachi/internal/store"
	"github.com/Adamaq01/Tachi/internal/validation"
)

// Importer turns batch-manual payloads into pipeline acquisitions.
type Importer struct {
	store     *store.Store
	charts    *search.ChartIndex
	validator *validation.Validator
	logger    *slog.Logger
}

// New creates a batch-manual importer.
func New(store *store.Store, charts *search.ChartIndex, logger *slog.Logger) *Importer {
	return &Importer{
		store:     store,
		charts:    charts,
		validator: validation.New(),
		logger:    logger,
	}
}

// Acquire returns an acquisition function over a raw payload. Parsing
// and header validation happen inside the returned function so a
// malformed payload aborts the import as an acquisition failure, before
// any conversion work.
func (i *Importer) Acquire(userID string, importType domain.ImportType, payload []byte) importing.AcquireFunc {
	return func(ctx context.Context, log *slog.Logger) (*importing.Acquisition, error) {
		var batch Batch
		if err := json.Unmarshal(payload, &batch); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeValidation, "malformed batch-manual payload")
		}
		if err := i.validator.Validate(&batch); err != nil {
			return nil, err
		}

		log.Debug("parsed batch-manual payload",
			"service", batch.Meta.Service,
			"scores", len(batch.Scores),
		)

		convCtx := &converterContext{
			ctx:        ctx,
			userID:     userID,
			importType: importType,
			game:       batch.Game(),
			playtype:   batch.Playtype(),
			service:    batch.Meta.Service,
			store:      i.store,
			charts:     i.charts,
		}

		return &importing.Acquisition{
			Records: func(yield func(importing.RawRecord) bool) {
				for idx := range batch.Scores {
					if !yield(&batch.Scores[idx]) {
						return
					}
				}
			},
			Convert: convertScore,
			Context: convCtx,
			Game:    batch.Game(),
		}, nil
	}
}
