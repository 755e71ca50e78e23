package pool

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Pool executes tasks on a fixed set of worker goroutines. The backlog
// is an unbounded FIFO guarded by a mutex and condition variable; the
// workers are the only consumers. Workers share no other mutable state.
type Pool[T, R any] struct {
	cfg    Config
	fn     Func[T, R]
	logger *zap.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	backlog   []item[T, R]
	closed    bool
	active    int
	completed int64

	wg sync.WaitGroup
}

type item[T, R any] struct {
	ctx  context.Context
	task Task[T]
	h    *Handle[R]
}

// New validates the configuration and starts exactly cfg.Capacity
// workers. Construction failure is fatal: no partial pool is created
// and no goroutines are left behind.
func New[T, R any](cfg Config, fn Func[T, R], logger *zap.Logger) (*Pool[T, R], error) {
	if cfg.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if fn == nil {
		return nil, ErrNilFunc
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool[T, R]{
		cfg:    cfg,
		fn:     fn,
		logger: logger,
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(cfg.Capacity)
	for i := range cfg.Capacity {
		go p.worker(i)
	}

	logger.Info("worker pool started", zap.Int("capacity", cfg.Capacity))
	return p, nil
}

// Submit accepts a task without blocking: if every slot is busy the
// task is queued. The ctx is handed to the work function when the task
// starts; cancelling it does not remove a queued task from the backlog.
// Returns ErrPoolClosed after Shutdown.
func (p *Pool[T, R]) Submit(ctx context.Context, task Task[T]) (*Handle[R], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	h := newHandle[R](task.Index)
	p.backlog = append(p.backlog, item[T, R]{ctx: ctx, task: task, h: h})
	p.cond.Signal()
	p.mu.Unlock()

	return h, nil
}

// Shutdown stops intake. With wait=true it blocks until every queued
// and in-flight task has resolved and all workers have exited. With
// wait=false it returns immediately: queued tasks are abandoned and
// their handles resolve with ErrPoolClosed, while in-flight tasks run
// to completion. Idempotent.
func (p *Pool[T, R]) Shutdown(wait bool) {
	p.mu.Lock()
	p.closed = true
	var abandoned []item[T, R]
	if !wait {
		abandoned = p.backlog
		p.backlog = nil
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	for _, it := range abandoned {
		it.h.resolve(Result[R]{Index: it.task.Index, Err: ErrPoolClosed})
	}
	if len(abandoned) > 0 {
		p.logger.Warn("abandoned queued tasks", zap.Int("count", len(abandoned)))
	}

	if wait {
		p.wg.Wait()
	}
	p.logger.Info("worker pool shut down", zap.Bool("wait", wait))
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T, R]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Capacity:  p.cfg.Capacity,
		Active:    p.active,
		Queued:    len(p.backlog),
		Completed: p.completed,
	}
}

func (p *Pool[T, R]) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.backlog) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.backlog) == 0 {
			// closed and drained
			p.mu.Unlock()
			return
		}
		it := p.backlog[0]
		p.backlog = p.backlog[1:]
		p.active++
		p.mu.Unlock()

		p.logger.Debug("running task",
			zap.Int("worker", id),
			zap.Int("index", it.task.Index))

		it.h.resolve(p.run(it))

		p.mu.Lock()
		p.active--
		p.completed++
		p.mu.Unlock()
	}
}

// run executes one task, converting a returned error or a recovered
// panic into a *TaskError so one crashing task never takes down its
// worker or its siblings.
func (p *Pool[T, R]) run(it item[T, R]) (res Result[R]) {
	res.Index = it.task.Index

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked",
				zap.Int("index", it.task.Index),
				zap.Any("panic", r))
			var zero R
			res.Value = zero
			res.Err = &TaskError{Index: it.task.Index, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	v, err := p.fn(it.ctx, it.task)
	if err != nil {
		res.Err = &TaskError{Index: it.task.Index, Err: err}
		return res
	}
	res.Value = v
	return res
}
