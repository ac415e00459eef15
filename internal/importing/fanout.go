package importing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Adamaq01/Tachi/internal/domain"
)

// updateAllGameStats recomputes aggregate stats for every playtype the
// import touched, one concurrent unit per playtype. Units operate on
// disjoint partitions and write into disjoint result slots, so no
// locking is needed. The join is all-or-nothing: if any unit fails the
// whole stage fails and no partial result is used.
func (o *Orchestrator) updateAllGameStats(ctx context.Context, game domain.Game, playtypes []domain.Playtype, userID string, log *slog.Logger) ([]domain.ClassDelta, error) {
	results := make([][]domain.ClassDelta, len(playtypes))
	errs := make([]error, len(playtypes))

	var wg sync.WaitGroup
	for i, playtype := range playtypes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			deltas, err := o.stats.UpdateGameStats(ctx, game, playtype, userID, log)
			if err != nil {
				errs[i] = fmt.Errorf("update stats for %s: %w", domain.FormatGPT(game, playtype), err)
				return
			}
			results[i] = deltas
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var deltas []domain.ClassDelta
	for _, result := range results {
		deltas = append(deltas, result...)
	}
	return deltas, nil
}
