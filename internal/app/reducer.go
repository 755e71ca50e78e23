package app

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"frame-reduction/internal/domain"
	"frame-reduction/internal/filter"
	"frame-reduction/internal/timing"
	"frame-reduction/pkg/pool"
)

// Reducer runs the frame reduction pipeline: estimate the background,
// split the frame into row-band tiles, median-filter the tiles on a
// worker pool and reassemble the output in index order. A failed tile
// leaves NaN rows in its band; it never blocks the other tiles.
type Reducer struct {
	logger *zap.Logger
	config *domain.Config
}

// ReduceReport summarizes one reduction.
type ReduceReport struct {
	Tiles       int
	Failed      int
	Background  float64
	Noise       float64
	TileTimings timing.Summary
}

func NewReducer(logger *zap.Logger, config *domain.Config) *Reducer {
	return &Reducer{
		logger: logger,
		config: config,
	}
}

func (r *Reducer) Reduce(ctx context.Context, frame *domain.FrameData) (*domain.FrameData, *ReduceReport, error) {
	if frame == nil || frame.Rows == 0 || frame.Cols == 0 {
		return nil, nil, domain.ErrInvalidFrame
	}

	background, noise, err := r.estimateBackground(frame)
	if err != nil {
		return nil, nil, err
	}

	tiles := r.buildTiles(frame, background)
	recorder := timing.NewDefaultRecorder()

	work := func(ctx context.Context, task pool.Task[domain.TileTask]) (domain.TileResult, error) {
		if err := ctx.Err(); err != nil {
			return domain.TileResult{}, err
		}
		start := time.Now()
		res, err := r.processTile(task.Input)
		recorder.Record(time.Since(start))
		return res, err
	}

	p, err := pool.New(pool.Config{Capacity: r.config.Workers}, work, r.logger)
	if err != nil {
		return nil, nil, err
	}

	dispatcher := pool.NewDispatcher(p, r.logger)
	results, err := dispatcher.RunBatch(ctx, tiles)
	p.Shutdown(true)
	if err != nil {
		return nil, nil, err
	}

	out := r.emptyResult(frame)
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
			continue
		}
		for i, row := range res.Value.Rows {
			out.Pixels[res.Value.Start+i] = row
		}
	}

	report := &ReduceReport{
		Tiles:       len(tiles),
		Failed:      failed,
		Background:  background,
		Noise:       noise,
		TileTimings: recorder.Snapshot(),
	}

	r.logger.Info("frame reduced",
		zap.Int("tiles", report.Tiles),
		zap.Int("failed", report.Failed),
		zap.Float64("background", report.Background),
		zap.Float64("noise", report.Noise),
		zap.Duration("tile_p50", report.TileTimings.P50),
		zap.Duration("tile_p95", report.TileTimings.P95))

	return out, report, nil
}

// estimateBackground sigma-clips the whole frame down to the sky
// level; the clipped stddev doubles as the noise estimate.
func (r *Reducer) estimateBackground(frame *domain.FrameData) (float64, float64, error) {
	flat := make([]float64, 0, frame.Rows*frame.Cols)
	for _, row := range frame.Pixels {
		flat = append(flat, row...)
	}
	return filter.ClippedStats(flat, r.config.ClipSigma, r.config.ClipMaxIter)
}

// buildTiles splits the frame into row bands of cfg.TileRows plus the
// halo rows the median window needs on each side. The window rows are
// shared with the source frame, not copied; tiles only read them.
func (r *Reducer) buildTiles(frame *domain.FrameData, background float64) []domain.TileTask {
	tileRows := r.config.TileRows
	if tileRows <= 0 || tileRows > frame.Rows {
		tileRows = frame.Rows
	}
	halo := r.config.FilterWindow / 2

	var tiles []domain.TileTask
	for start := 0; start < frame.Rows; start += tileRows {
		end := min(start+tileRows, frame.Rows)
		haloStart := max(0, start-halo)
		haloEnd := min(frame.Rows, end+halo)

		tiles = append(tiles, domain.TileTask{
			Index:      len(tiles),
			Start:      start,
			End:        end,
			Offset:     start - haloStart,
			Window:     frame.Pixels[haloStart:haloEnd],
			Background: background,
		})
	}
	return tiles
}

func (r *Reducer) processTile(t domain.TileTask) (domain.TileResult, error) {
	filtered, err := filter.Median(t.Window, r.config.FilterWindow)
	if err != nil {
		return domain.TileResult{}, err
	}

	rows := filtered[t.Offset : t.Offset+(t.End-t.Start)]
	if r.config.SubtractBackground {
		filter.SubtractConst(rows, t.Background)
	}

	return domain.TileResult{
		Start: t.Start,
		End:   t.End,
		Rows:  rows,
	}, nil
}

// emptyResult clones the frame labels and fills every pixel with NaN,
// the marker for bands whose tile failed.
func (r *Reducer) emptyResult(frame *domain.FrameData) *domain.FrameData {
	out := frame.Clone()
	for i := range out.Pixels {
		for j := range out.Pixels[i] {
			out.Pixels[i][j] = math.NaN()
		}
	}
	return out
}
