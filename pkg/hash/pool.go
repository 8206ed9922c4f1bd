package hash

import (
	"context"
	"sync"
)

// Result pairs a submitted path with its digest or failure.
type Result struct {
	Path string
	Hex  string
	Err  error
}

// Pool hashes batches of files across a fixed number of workers. Results
// are associated back to their paths by submission index, so the returned
// slice is always in submission order no matter which worker finished
// first, and always holds exactly one result per submitted path. A task
// that fails yields a Result with Err set; it is never retried.
type Pool struct {
	hasher  *Hasher
	workers int

	// OnStart and OnFinish, if set, bracket each batch with its size;
	// OnDone is called after each file completes. Used for progress
	// reporting; OnDone must be safe for concurrent calls.
	OnStart  func(total int)
	OnDone   func(path string)
	OnFinish func()
}

// NewPool creates a pool of the given worker count.
func NewPool(hasher *Hasher, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{hasher: hasher, workers: workers}
}

// Run hashes every path and returns one result per path, in submission
// order. A cancelled context marks the remaining files as failed with the
// context error rather than blocking.
func (p *Pool) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}

	if p.OnStart != nil {
		p.OnStart(len(paths))
	}
	if p.OnFinish != nil {
		defer p.OnFinish()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker writes only its own index; no lock needed
				hex, err := p.hasher.Sum(ctx, paths[i])
				results[i] = Result{Path: paths[i], Hex: hex, Err: err}
				if p.OnDone != nil {
					p.OnDone(paths[i])
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
