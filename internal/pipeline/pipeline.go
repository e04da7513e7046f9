package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

type Func[T, R any] func(ctx context.Context, index int, item T) (R, error)

type job[T any] struct {
	index int
	item  T
}

// Map runs fn over items with a bounded worker pool. Results and errors are
// indexed like items, so callers keep input order. A failing or panicking
// item does not stop the others; items not started before ctx is done get
// ctx.Err().
func Map[T, R any](ctx context.Context, items []T, workers int, fn Func[T, R]) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))
	if len(items) == 0 || fn == nil {
		return results, errs
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(items))

	jobs := make(chan job[T])
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index], errs[j.index] = run(ctx, j, fn)
			}
		}()
	}

	next := 0
feed:
	for ; next < len(items); next++ {
		select {
		case jobs <- job[T]{index: next, item: items[next]}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(items); i++ {
		errs[i] = ctx.Err()
	}
	return results, errs
}

func run[T, R any](ctx context.Context, j job[T], fn Func[T, R]) (out R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item %d panicked: %v", j.index, r)
		}
	}()
	return fn(ctx, j.index, j.item)
}

// Errors drops the nil entries of an indexed error slice.
func Errors(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
