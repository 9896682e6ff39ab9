package sassrender

import (
	"context"
	"runtime"
	"sync"
)

// BatchResult holds the outcome of one render in a batch.
type BatchResult struct {
	Source string
	Result *Result // nil on failure
	Err    error
}

// RenderAll renders sources concurrently with at most workers renders in
// flight. Results are returned in the order of sources.
//
// Cancelling ctx stops dispatching: renders already started run to
// completion and the rest report ctx.Err().
func RenderAll(ctx context.Context, r *Renderer, sources []string, output string, workers int) []BatchResult {
	if len(sources) == 0 {
		return nil
	}

	workers = ResolveWorkers(workers)
	if workers > len(sources) {
		workers = len(sources)
	}

	results := make([]BatchResult, len(sources))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := r.Render(sources[idx], output)
				results[idx] = BatchResult{Source: sources[idx], Result: res, Err: err}
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(sources); next++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for ; next < len(sources); next++ {
		results[next] = BatchResult{Source: sources[next], Err: ctx.Err()}
	}

	return results
}

// ResolveWorkers determines the worker count.
// Priority: explicit value > GOMAXPROCS-based calculation.
func ResolveWorkers(n int) int {
	if n > 0 {
		return n
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers
	n = runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
