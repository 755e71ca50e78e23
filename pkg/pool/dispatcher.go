package pool

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Dispatcher submits whole batches to one pool and joins on every
// result before returning.
type Dispatcher[T, R any] struct {
	pool   *Pool[T, R]
	logger *zap.Logger
}

func NewDispatcher[T, R any](p *Pool[T, R], logger *zap.Logger) *Dispatcher[T, R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher[T, R]{pool: p, logger: logger}
}

// RunBatch submits one task per input (Index = position) and awaits
// every handle in submission order. The returned slice has exactly
// len(inputs) entries, positionally matching the inputs regardless of
// the pool's completion order; a failed task leaves a failure Result in
// its slot without aborting the batch. The error is non-nil only for
// batch-level faults: the pool was already closed, or ctx ended during
// the join.
func (d *Dispatcher[T, R]) RunBatch(ctx context.Context, inputs []T) ([]Result[R], error) {
	runID := uuid.NewString()
	log := d.logger.With(zap.String("run_id", runID))
	log.Info("batch submitted", zap.Int("tasks", len(inputs)))

	handles := make([]*Handle[R], len(inputs))
	for i, in := range inputs {
		h, err := d.pool.Submit(ctx, Task[T]{Index: i, Input: in})
		if err != nil {
			// Earlier handles are left unawaited; the pool still
			// resolves every accepted task, so nothing leaks.
			return nil, err
		}
		handles[i] = h
	}

	results := make([]Result[R], len(inputs))
	failed := 0
	for i, h := range handles {
		// A cancelled ctx ends the join even when every handle has
		// already resolved.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := h.Await(ctx)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			failed++
			log.Warn("task failed",
				zap.Int("index", res.Index),
				zap.Error(res.Err))
		}
		results[i] = res
	}

	log.Info("batch complete",
		zap.Int("tasks", len(inputs)),
		zap.Int("failed", failed))
	return results, nil
}

// Errs aggregates the failures of a batch into one error, nil when
// every task succeeded.
func Errs[R any](results []Result[R]) error {
	var err error
	for _, res := range results {
		if !res.OK() {
			err = multierr.Append(err, res.Err)
		}
	}
	return err
}
