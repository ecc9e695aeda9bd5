// Package workerpool implements a small, fixed-size pool of long-lived
// goroutines used by the parallel compression codecs to process one round
// (or batch) of logical chunks at a time.
//
// The pool itself does not order anything; ordering of framed-chunk
// emission on write, or of decompressed bytes on read, is restored by the
// caller writing each job's result into a slot addressed by its chunk
// index and draining the slots in order after Run returns — the technique
// spec.md calls out explicitly for satisfying the "chunk k before chunk
// k+1" contract regardless of completion order.
package workerpool

import (
	"fmt"
	"sync"

	"github.com/arloliu/ataf/errs"
)

// Pool is a fixed set of goroutines draining a shared, unbuffered job
// channel. It lives for as long as the codec instance that owns it and may
// be reused across many entries and many rounds.
type Pool struct {
	jobs chan func()
	done sync.WaitGroup
}

// New starts a pool of n workers. n < 1 is treated as 1.
func New(n int) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{jobs: make(chan func())}

	p.done.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.done.Done()

			for job := range p.jobs {
				job()
			}
		}()
	}

	return p
}

// Close shuts the pool down, blocking until every in-flight job returns. A
// closed pool must not be reused.
func (p *Pool) Close() {
	close(p.jobs)
	p.done.Wait()
}

// Run dispatches one job per element of fns to the pool and blocks until
// every job has completed. A job that panics is recovered and reported as
// errs.ErrWorkerPanicked. Run returns the first non-nil error found when
// scanning results in fns' index order, wrapped in errs.ErrCodecFailure —
// the round's first failure by position, matching the "one worker error
// fails the whole entry" propagation policy.
func (p *Pool) Run(fns []func() error) error {
	if len(fns) == 0 {
		return nil
	}

	results := make([]error, len(fns))

	var wg sync.WaitGroup

	wg.Add(len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		p.jobs <- func() {
			defer wg.Done()

			results[i] = runRecovered(fn)
		}
	}
	wg.Wait()

	for _, err := range results {
		if err != nil {
			return fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
		}
	}

	return nil
}

func runRecovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errs.ErrWorkerPanicked, r)
		}
	}()

	return fn()
}
