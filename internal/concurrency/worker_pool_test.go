package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunTasksVisitsEveryIndex(t *testing.T) {
	t.Parallel()

	var seen [50]int32
	var running, peak int32
	errs := RunTasks(context.Background(), 4, len(seen), func(ctx context.Context, i int) error {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		atomic.AddInt32(&seen[i], 1)
		atomic.AddInt32(&running, -1)
		if i%10 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	require.Len(t, errs, 50)
	for i := range seen {
		require.Equal(t, int32(1), seen[i])
		if i%10 == 0 {
			require.Error(t, errs[i])
		} else {
			require.NoError(t, errs[i])
		}
	}
	require.LessOrEqual(t, peak, int32(4))
}

func TestRunTasksCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	errs := RunTasks(ctx, 2, 10, func(ctx context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	var cancelled int
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			cancelled++
		}
	}
	require.Equal(t, 10, int(calls)+cancelled)
}

func TestRunTasksEmpty(t *testing.T) {
	require.Empty(t, RunTasks(context.Background(), 3, 0, nil))
}
