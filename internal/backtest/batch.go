package backtest

import (
	"context"
	"sync"
)

// DefaultWorkers bounds Batch when no worker count is given.
const DefaultWorkers = 4

// Batch runs independent requests concurrently with at most workers runs
// in flight. results[i] and errs[i] belong to reqs[i]; exactly one of them
// is nil. A failed run does not stop the others.
func (b *Backtester) Batch(ctx context.Context, reqs []Request, workers int) ([]*Result, []error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-semaphore }()

			results[i], errs[i] = b.Run(ctx, reqs[i])
		}(i)
	}

	wg.Wait()
	return results, errs
}
