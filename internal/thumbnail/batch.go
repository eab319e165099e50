package thumbnail

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/sydlexius/kala/internal/artist"
	"github.com/sydlexius/kala/internal/event"
)

// DefaultWorkers bounds ResolveAll when workers is not positive.
const DefaultWorkers = 4

// BatchSummary describes one ResolveAll run.
type BatchSummary struct {
	ID       string        `json:"id"`
	Total    int           `json:"total"`
	Found    int           `json:"found"`
	NotFound int           `json:"not_found"`
	Elapsed  time.Duration `json:"elapsed"`
}

// ResolveAll resolves every identity with at most workers lookups in
// flight from this call. Results are returned in input order.
func (r *Resolver) ResolveAll(ctx context.Context, ids []artist.Identity, workers int) ([]Result, BatchSummary) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	start := time.Now()
	summary := BatchSummary{ID: uuid.New().String(), Total: len(ids)}

	results := make([]Result, len(ids))
	p := pool.New().WithMaxGoroutines(workers)
	for i, id := range ids {
		p.Go(func() {
			results[i] = r.Resolve(ctx, id)
		})
	}
	p.Wait()

	for _, res := range results {
		if res.IsFound() {
			summary.Found++
		} else {
			summary.NotFound++
		}
	}
	summary.Elapsed = time.Since(start)

	r.logger.Info("batch resolved",
		slog.String("batch_id", summary.ID),
		slog.Int("total", summary.Total),
		slog.Int("found", summary.Found),
		slog.Int("not_found", summary.NotFound),
		slog.Duration("elapsed", summary.Elapsed))

	if r.eventBus != nil {
		r.eventBus.Publish(event.Event{
			Type: event.BatchCompleted,
			Data: map[string]any{
				"batch_id":  summary.ID,
				"total":     summary.Total,
				"found":     summary.Found,
				"not_found": summary.NotFound,
			},
		})
	}

	return results, summary
}
