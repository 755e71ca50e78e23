package pool

import "runtime"

// Config holds the pool construction parameters.
type Config struct {
	// Capacity is the number of worker goroutines, i.e. the maximum
	// number of tasks executing concurrently. Must be positive.
	Capacity int
}

// DefaultConfig leaves one CPU free for the rest of the process.
func DefaultConfig() Config {
	return Config{Capacity: max(1, runtime.NumCPU()-1)}
}

// Stats is a point-in-time snapshot of pool state.
type Stats struct {
	Capacity  int
	Active    int
	Queued    int
	Completed int64
}
