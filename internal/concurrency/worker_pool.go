package concurrency

import (
	"context"
	"sync"
)

type TaskFn func(ctx context.Context, index int) error

// RunTasks calls fn for indices [0, tasks) on at most concurrency goroutines
// and returns the per-index errors. Indices not started before ctx is done
// get ctx.Err().
func RunTasks(ctx context.Context, concurrency, tasks int, fn TaskFn) []error {
	errs := make([]error, tasks)
	if tasks == 0 {
		return errs
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > tasks {
		concurrency = tasks
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				errs[i] = fn(ctx, i)
			}
		}()
	}

	next := 0
feed:
	for ; next < tasks; next++ {
		select {
		case idx <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(idx)
	wg.Wait()

	for i := next; i < tasks; i++ {
		errs[i] = ctx.Err()
	}
	return errs
}
