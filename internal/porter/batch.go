package porter

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExportBatch runs fn over independent jobs with at most workers in flight.
// Results keep the order of jobs. Per-job failures belong in R; fn never
// cancels its siblings. When ctx is cancelled no new job starts, and the
// context error is returned along with the results gathered so far.
func ExportBatch[J, R any](ctx context.Context, jobs []J, workers int, fn func(context.Context, J) R) ([]R, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]R, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fn(gctx, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
