package dynamo

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers clamps a requested worker count to [1, n]. A request of zero or
// less means one worker per available CPU.
func Workers(requested, n int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ParallelFor splits [0, n) into contiguous chunks, one per worker, and runs
// fn on each chunk concurrently. It returns after every chunk has finished,
// with the first error reported by any chunk.
func ParallelFor(n, workers int, fn func(worker, start, end int) error) error {
	workers = Workers(workers, n)
	if workers <= 1 {
		return fn(0, 0, n)
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		g.Go(func() error {
			return fn(w, start, end)
		})
	}

	return g.Wait()
}
