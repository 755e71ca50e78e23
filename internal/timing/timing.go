// Package timing provides a concurrent-safe duration recorder used to
// summarize per-tile and per-round wall times.
package timing

import (
	"sync"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Summary is a snapshot of recorded durations.
type Summary struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Recorder accumulates durations from any number of goroutines. The
// histogram itself is not thread-safe, so every access holds the mutex.
type Recorder struct {
	mu sync.Mutex
	h  *hdrhistogram.Histogram
}

// NewRecorder tracks durations between min and max with the given
// number of significant figures. Durations outside the range are
// clamped by the histogram.
func NewRecorder(min, max time.Duration, sigfigs int) *Recorder {
	return &Recorder{
		h: hdrhistogram.New(min.Nanoseconds(), max.Nanoseconds(), sigfigs),
	}
}

// NewDefaultRecorder covers 1µs..10min at 3 significant figures, wide
// enough for both tile filtering and whole-batch benchmarks.
func NewDefaultRecorder() *Recorder {
	return NewRecorder(time.Microsecond, 10*time.Minute, 3)
}

func (r *Recorder) Record(d time.Duration) {
	r.mu.Lock()
	_ = r.h.RecordValue(d.Nanoseconds())
	r.mu.Unlock()
}

func (r *Recorder) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.h.TotalCount() == 0 {
		return Summary{}
	}
	return Summary{
		Count: r.h.TotalCount(),
		Min:   time.Duration(r.h.Min()),
		Max:   time.Duration(r.h.Max()),
		Mean:  time.Duration(int64(r.h.Mean())),
		P50:   time.Duration(r.h.ValueAtQuantile(50)),
		P95:   time.Duration(r.h.ValueAtQuantile(95)),
		P99:   time.Duration(r.h.ValueAtQuantile(99)),
	}
}

// Reset clears all recorded values.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.h.Reset()
	r.mu.Unlock()
}
