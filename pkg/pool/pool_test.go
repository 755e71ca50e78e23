package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewValidation(t *testing.T) {
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		return task.Input, nil
	}

	_, err := New[int, int](Config{Capacity: 0}, fn, zap.NewNop())
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New[int, int](Config{Capacity: -3}, fn, zap.NewNop())
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = New[int, int](Config{Capacity: 2}, nil, zap.NewNop())
	require.ErrorIs(t, err, ErrNilFunc)
}

func TestDefaultConfigCapacity(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultConfig().Capacity, 1)
}

func TestCapacityNeverExceeded(t *testing.T) {
	const capacity = 4
	const tasks = 64

	var active atomic.Int32
	var maxActive atomic.Int32

	fn := func(ctx context.Context, task Task[int]) (int, error) {
		cur := active.Add(1)
		for {
			prev := maxActive.Load()
			if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return task.Input, nil
	}

	p, err := New(Config{Capacity: capacity}, fn, zap.NewNop())
	require.NoError(t, err)

	handles := make([]*Handle[int], 0, tasks)
	for i := range tasks {
		h, err := p.Submit(context.Background(), Task[int]{Index: i, Input: i})
		require.NoError(t, err)
		handles = append(handles, h)
	}
	for _, h := range handles {
		_, err := h.Await(context.Background())
		require.NoError(t, err)
	}
	p.Shutdown(true)

	assert.LessOrEqual(t, maxActive.Load(), int32(capacity))

	stats := p.Stats()
	assert.Equal(t, capacity, stats.Capacity)
	assert.Equal(t, 0, stats.Active)
	assert.Equal(t, 0, stats.Queued)
	assert.Equal(t, int64(tasks), stats.Completed)
}

func TestSubmitAfterShutdown(t *testing.T) {
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)

	p.Shutdown(true)

	_, err = p.Submit(context.Background(), Task[int]{Index: 0, Input: 1})
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestPanicIsolation(t *testing.T) {
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		if task.Index == 2 {
			panic("boom")
		}
		return task.Input * 10, nil
	}
	p, err := New(Config{Capacity: 2}, fn, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	handles := make([]*Handle[int], 5)
	for i := range handles {
		h, err := p.Submit(context.Background(), Task[int]{Index: i, Input: i})
		require.NoError(t, err)
		handles[i] = h
	}

	for i, h := range handles {
		res, err := h.Await(context.Background())
		require.NoError(t, err)
		require.Equal(t, i, res.Index)
		if i == 2 {
			require.False(t, res.OK())
			var taskErr *TaskError
			require.ErrorAs(t, res.Err, &taskErr)
			assert.Equal(t, 2, taskErr.Index)
			assert.Contains(t, taskErr.Error(), "panic")
		} else {
			require.True(t, res.OK())
			assert.Equal(t, i*10, res.Value)
		}
	}
}

func TestTaskErrorWrapping(t *testing.T) {
	sentinel := errors.New("bad pixel")
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		return 0, sentinel
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	h, err := p.Submit(context.Background(), Task[int]{Index: 7, Input: 7})
	require.NoError(t, err)

	res, err := h.Await(context.Background())
	require.NoError(t, err)
	require.False(t, res.OK())
	require.ErrorIs(t, res.Err, sentinel)

	var taskErr *TaskError
	require.ErrorAs(t, res.Err, &taskErr)
	assert.Equal(t, 7, taskErr.Index)
}

func TestShutdownWaitDrains(t *testing.T) {
	const tasks = 16

	var completed atomic.Int32
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		time.Sleep(2 * time.Millisecond)
		completed.Add(1)
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 2}, fn, zap.NewNop())
	require.NoError(t, err)

	handles := make([]*Handle[int], 0, tasks)
	for i := range tasks {
		h, err := p.Submit(context.Background(), Task[int]{Index: i, Input: i})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	p.Shutdown(true)

	// Every task resolved before Shutdown(true) returned.
	assert.Equal(t, int32(tasks), completed.Load())
	for _, h := range handles {
		select {
		case <-h.Done():
		default:
			t.Fatalf("handle %d not resolved after Shutdown(true)", h.Index())
		}
	}
}

func TestShutdownNoWaitAbandonsQueued(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fn := func(ctx context.Context, task Task[int]) (int, error) {
		if task.Index == 0 {
			close(started)
			<-release
		}
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)

	blocker, err := p.Submit(context.Background(), Task[int]{Index: 0, Input: 0})
	require.NoError(t, err)
	<-started

	queued := make([]*Handle[int], 0, 3)
	for i := 1; i <= 3; i++ {
		h, err := p.Submit(context.Background(), Task[int]{Index: i, Input: i})
		require.NoError(t, err)
		queued = append(queued, h)
	}

	p.Shutdown(false)

	// Queued handles resolve immediately with ErrPoolClosed.
	for _, h := range queued {
		res, err := h.Await(context.Background())
		require.NoError(t, err)
		require.False(t, res.OK())
		require.ErrorIs(t, res.Err, ErrPoolClosed)
		assert.Equal(t, h.Index(), res.Index)
	}

	// The in-flight task still runs to completion.
	close(release)
	res, err := blocker.Await(context.Background())
	require.NoError(t, err)
	require.True(t, res.OK())

	p.Shutdown(true)
}

func TestAwaitPrefersResolvedResult(t *testing.T) {
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		return task.Input * 3, nil
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	h, err := p.Submit(context.Background(), Task[int]{Index: 0, Input: 5})
	require.NoError(t, err)
	<-h.Done()

	// Both channels are ready; the resolved result must win every time.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for range 50 {
		res, err := h.Await(ctx)
		require.NoError(t, err)
		require.True(t, res.OK())
		require.Equal(t, 15, res.Value)
	}
}

func TestAwaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		<-release
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)

	h, err := p.Submit(context.Background(), Task[int]{Index: 0, Input: 0})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	p.Shutdown(true)
}
