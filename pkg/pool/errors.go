package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Submit after Shutdown, and carried by
	// the results of tasks abandoned by Shutdown(false).
	ErrPoolClosed = errors.New("pool is closed")

	// ErrInvalidCapacity is returned by New when Capacity is not positive.
	ErrInvalidCapacity = errors.New("pool capacity must be positive")

	// ErrNilFunc is returned by New when no work function is given.
	ErrNilFunc = errors.New("work function is nil")
)

// TaskError wraps the failure of a single task, keeping the task index.
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
