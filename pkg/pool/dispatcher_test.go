package pool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sumRange computes sum(i*100 .. (i+1)*100-1) for input i.
func sumRange(ctx context.Context, task Task[int]) (int, error) {
	total := 0
	for v := task.Input * 100; v < (task.Input+1)*100; v++ {
		total += v
	}
	return total, nil
}

func TestRunBatchOrderedResults(t *testing.T) {
	p, err := New(Config{Capacity: 4}, sumRange, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	inputs := make([]int, 10)
	for i := range inputs {
		inputs[i] = i
	}

	d := NewDispatcher[int, int](p, zap.NewNop())
	results, err := d.RunBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 10)

	want := []int{4950, 14950, 24950, 34950, 44950, 54950, 64950, 74950, 84950, 94950}
	for i, res := range results {
		require.True(t, res.OK())
		assert.Equal(t, i, res.Index)
		assert.Equal(t, want[i], res.Value)
	}

	require.NoError(t, Errs(results))
}

func TestRunBatchPartialFailure(t *testing.T) {
	sentinel := errors.New("compute failed")
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		if task.Index == 2 {
			return 0, sentinel
		}
		return task.Input * task.Input, nil
	}
	p, err := New(Config{Capacity: 3}, fn, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	d := NewDispatcher[int, int](p, zap.NewNop())
	results, err := d.RunBatch(context.Background(), []int{0, 1, 2, 3, 4})
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, res := range results {
		if i == 2 {
			require.False(t, res.OK())
			require.ErrorIs(t, res.Err, sentinel)
			continue
		}
		require.True(t, res.OK())
		assert.Equal(t, i*i, res.Value)
	}

	require.ErrorIs(t, Errs(results), sentinel)
}

func TestRunBatchEmpty(t *testing.T) {
	p, err := New(Config{Capacity: 2}, sumRange, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	d := NewDispatcher[int, int](p, zap.NewNop())
	results, err := d.RunBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunBatchOnClosedPool(t *testing.T) {
	p, err := New(Config{Capacity: 2}, sumRange, zap.NewNop())
	require.NoError(t, err)
	p.Shutdown(true)

	d := NewDispatcher[int, int](p, zap.NewNop())
	_, err = d.RunBatch(context.Background(), []int{1, 2, 3})
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestRunBatchContextCancelled(t *testing.T) {
	release := make(chan struct{})
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		<-release
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 1}, fn, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	d := NewDispatcher[int, int](p, zap.NewNop())
	go func() {
		_, err := d.RunBatch(ctx, []int{1, 2, 3})
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	p.Shutdown(true)
}

func TestRunBatchPreCancelledContext(t *testing.T) {
	fn := func(ctx context.Context, task Task[int]) (int, error) {
		return task.Input, nil
	}
	p, err := New(Config{Capacity: 2}, fn, zap.NewNop())
	require.NoError(t, err)
	defer p.Shutdown(true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Tasks resolve almost instantly, so by the time the join runs
	// both the handles and the context are ready; the join must still
	// report the cancellation every time.
	d := NewDispatcher[int, int](p, zap.NewNop())
	for range 20 {
		_, err := d.RunBatch(ctx, []int{1, 2, 3})
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestErrsAggregation(t *testing.T) {
	results := []Result[int]{
		{Index: 0, Value: 1},
		{Index: 1, Err: &TaskError{Index: 1, Err: fmt.Errorf("first")}},
		{Index: 2, Err: &TaskError{Index: 2, Err: fmt.Errorf("second")}},
	}
	err := Errs(results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")

	require.NoError(t, Errs([]Result[int]{{Index: 0, Value: 1}}))
}
