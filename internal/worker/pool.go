// Package worker provides bounded concurrent fan-out for pipeline stages and
// per-host rate limiting for article fetching.
package worker

import (
	"context"
	"sync"
)

// ForEach runs fn for each index in [0, n) with at most limit goroutines in
// flight. Results are written by index on the caller's side, so output order
// never depends on scheduling. Indices not reached before ctx is cancelled
// are skipped.
func ForEach(ctx context.Context, n, limit int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}

	semaphore := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			fn(idx)
		}(i)
	}

	wg.Wait()
}

// Map applies fn to each input concurrently, bounded by limit, and returns
// outputs in input order.
func Map[In, Out any](ctx context.Context, limit int, inputs []In, fn func(ctx context.Context, in In) Out) []Out {
	outputs := make([]Out, len(inputs))
	ForEach(ctx, len(inputs), limit, func(i int) {
		outputs[i] = fn(ctx, inputs[i])
	})
	return outputs
}
