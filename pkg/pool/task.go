package pool

import "context"

// Task is one independent unit of work. Index identifies which slice of
// the input this task processes; Input is whatever the work function
// needs. A task is immutable once created and consumed exactly once.
type Task[T any] struct {
	Index int
	Input T
}

// Func is the pure work function a pool applies to every task.
type Func[T, R any] func(ctx context.Context, task Task[T]) (R, error)

// Result is the outcome of one task. Err is nil on success, a
// *TaskError on execution failure, or ErrPoolClosed when the task was
// abandoned by Shutdown(false).
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

func (r Result[R]) OK() bool {
	return r.Err == nil
}

// Handle is the future for one submitted task.
type Handle[R any] struct {
	index int
	done  chan struct{}
	res   Result[R]
}

func newHandle[R any](index int) *Handle[R] {
	return &Handle[R]{index: index, done: make(chan struct{})}
}

// resolve publishes the result. Called exactly once per handle.
func (h *Handle[R]) resolve(res Result[R]) {
	h.res = res
	close(h.done)
}

// Index returns the index of the task this handle tracks.
func (h *Handle[R]) Index() int {
	return h.index
}

// Done is closed once the task has a result.
func (h *Handle[R]) Done() <-chan struct{} {
	return h.done
}

// Await blocks until the task resolves or ctx is done. The returned
// error is the context error only; a task failure travels inside the
// Result. A handle that has already resolved always delivers its
// result, even when ctx is also done.
func (h *Handle[R]) Await(ctx context.Context) (Result[R], error) {
	select {
	case <-h.done:
		return h.res, nil
	default:
	}

	select {
	case <-h.done:
		return h.res, nil
	case <-ctx.Done():
		return Result[R]{Index: h.index}, ctx.Err()
	}
}
