// Package bench measures how matrix-multiply throughput scales with
// pool capacity: C = A·B is split into row bands, each band dispatched
// as one task, and the batch wall time recorded per round.
package bench

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"frame-reduction/internal/domain"
	"frame-reduction/internal/timing"
	"frame-reduction/pkg/pool"
)

// Measurement is the outcome of all rounds for one (size, capacity)
// pair. Speedup is relative to the first capacity of the ladder.
type Measurement struct {
	Size     int
	Capacity int
	Rounds   int
	Mean     time.Duration
	P95      time.Duration
	Speedup  float64
}

type Runner struct {
	logger *zap.Logger
	cfg    domain.BenchConfig
}

func NewRunner(logger *zap.Logger, cfg domain.BenchConfig) *Runner {
	return &Runner{logger: logger, cfg: cfg}
}

type band struct {
	start, end int
}

// Run walks the configured size × capacity grid. The per-round pool
// uses a nop logger so the measurement is not dominated by log I/O.
func (r *Runner) Run(ctx context.Context) ([]Measurement, error) {
	rng := rand.New(rand.NewSource(1))

	var measurements []Measurement
	for _, size := range r.cfg.Sizes {
		a := randomDense(size, rng)
		b := randomDense(size, rng)

		var baseline time.Duration
		for _, capacity := range r.cfg.Capacities {
			recorder := timing.NewDefaultRecorder()

			for range r.cfg.Rounds {
				_, elapsed, err := r.round(ctx, a, b, size, capacity)
				if err != nil {
					return nil, err
				}
				recorder.Record(elapsed)
			}

			snap := recorder.Snapshot()
			if baseline == 0 {
				baseline = snap.Mean
			}
			m := Measurement{
				Size:     size,
				Capacity: capacity,
				Rounds:   r.cfg.Rounds,
				Mean:     snap.Mean,
				P95:      snap.P95,
				Speedup:  speedup(baseline, snap.Mean),
			}
			measurements = append(measurements, m)

			r.logger.Info("bench point",
				zap.Int("size", m.Size),
				zap.Int("capacity", m.Capacity),
				zap.Int("rounds", m.Rounds),
				zap.Duration("mean", m.Mean),
				zap.Duration("p95", m.P95),
				zap.Float64("speedup", m.Speedup))
		}
	}
	return measurements, nil
}

// round multiplies A·B once through a fresh pool of the given capacity
// and returns the product and the batch wall time.
func (r *Runner) round(ctx context.Context, a, b *mat.Dense, size, capacity int) (*mat.Dense, time.Duration, error) {
	c := mat.NewDense(size, size, nil)

	work := func(ctx context.Context, task pool.Task[band]) (struct{}, error) {
		bd := task.Input
		// Bands are disjoint, so concurrent writes into C never overlap.
		dst := c.Slice(bd.start, bd.end, 0, size).(*mat.Dense)
		dst.Mul(a.Slice(bd.start, bd.end, 0, size), b)
		return struct{}{}, nil
	}

	p, err := pool.New(pool.Config{Capacity: capacity}, work, zap.NewNop())
	if err != nil {
		return nil, 0, err
	}
	dispatcher := pool.NewDispatcher[band, struct{}](p, zap.NewNop())

	bands := makeBands(size, r.cfg.BandRows)
	start := time.Now()
	results, err := dispatcher.RunBatch(ctx, bands)
	p.Shutdown(true)
	if err != nil {
		return nil, 0, err
	}
	if err := pool.Errs(results); err != nil {
		return nil, 0, err
	}
	return c, time.Since(start), nil
}

// speedup is baseline/mean, or 0 when the mean is too small for the
// recorder to resolve.
func speedup(baseline, mean time.Duration) float64 {
	if mean <= 0 {
		return 0
	}
	return float64(baseline) / float64(mean)
}

func makeBands(size, bandRows int) []band {
	if bandRows <= 0 || bandRows > size {
		bandRows = size
	}
	var bands []band
	for start := 0; start < size; start += bandRows {
		bands = append(bands, band{start: start, end: min(start+bandRows, size)})
	}
	return bands
}

func randomDense(size int, rng *rand.Rand) *mat.Dense {
	data := make([]float64, size*size)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(size, size, data)
}
