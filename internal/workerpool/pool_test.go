package workerpool

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ataf/errs"
)

// TestRunOrdersBySlotNotCompletion verifies that even when workers finish
// out of order, Run's index-addressed slots let callers recover the
// original chunk order deterministically.
func TestRunOrdersBySlotNotCompletion(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	results := make([]int, 8)
	fns := make([]func() error, len(results))

	for i := range fns {
		i := i
		fns[i] = func() error {
			results[i] = i * i // deterministic per-slot side effect

			return nil
		}
	}

	require.NoError(t, pool.Run(fns))

	for i, v := range results {
		require.Equal(t, i*i, v)
	}
}

// TestRunSurfacesFirstError verifies one job's error fails the whole round.
func TestRunSurfacesFirstError(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	boom := errors.New("boom")
	fns := []func() error{
		func() error { return nil },
		func() error { return boom },
		func() error { return nil },
	}

	err := pool.Run(fns)
	require.ErrorIs(t, err, boom)
}

// TestRunRecoversPanics verifies a panicking job is reported as
// ErrWorkerPanicked rather than crashing the process.
func TestRunRecoversPanics(t *testing.T) {
	pool := New(1)
	defer pool.Close()

	err := pool.Run([]func() error{
		func() error { panic("kaboom") },
	})
	require.ErrorIs(t, err, errs.ErrWorkerPanicked)
}

// TestRunHandlesMoreJobsThanWorkers verifies rounds wider than the pool's
// worker count still complete and run every job exactly once.
func TestRunHandlesMoreJobsThanWorkers(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var count int64

	fns := make([]func() error, 50)
	for i := range fns {
		fns[i] = func() error {
			atomic.AddInt64(&count, 1)

			return nil
		}
	}

	require.NoError(t, pool.Run(fns))
	require.EqualValues(t, 50, count)
}
