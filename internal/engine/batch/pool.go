package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Common pool errors.
var (
	ErrNilWork       = errors.New("work function cannot be nil")
	ErrNegativeCount = errors.New("item count cannot be negative")
)

// WorkFunc processes the item at index. Returned errors are recorded for that
// index only.
type WorkFunc func(ctx context.Context, index int) error

// ProgressCallback is invoked after each item finishes, from the worker that
// ran it.
type ProgressCallback func(snapshot ProgressSnapshot)

// Pool runs WorkFuncs with at most Workers in flight, or all of them at once
// when Workers is zero.
type Pool struct {
	workers    int
	onProgress ProgressCallback
}

// NewPool returns a pool of the given size. Non-positive sizes start one
// goroutine per item.
func NewPool(workers int) *Pool {
	if workers < 0 {
		workers = 0
	}
	return &Pool{workers: workers}
}

// WithProgressCallback sets a progress callback for the pool.
func (p *Pool) WithProgressCallback(callback ProgressCallback) *Pool {
	p.onProgress = callback
	return p
}

// Workers returns the concurrency limit, zero when unbounded.
func (p *Pool) Workers() int {
	return p.workers
}

// Run calls work for every index in [0, n) and waits for all of them. The
// returned slice has one entry per index: nil on success, the work error, or
// the context error for items that never started.
func (p *Pool) Run(ctx context.Context, n int, work WorkFunc) ([]error, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeCount, n)
	}
	if work == nil {
		return nil, ErrNilWork
	}

	errs := make([]error, n)
	progress := NewProgress(n)

	var g errgroup.Group
	if p.workers > 0 {
		g.SetLimit(p.workers)
	}

	for i := range n {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs[i] = ctxErr
			p.record(progress, ctxErr)
			continue
		}

		g.Go(func() error {
			var err error
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			} else {
				err = work(ctx, i)
			}
			errs[i] = err
			p.record(progress, err)
			return nil
		})
	}

	// Workers never return errors to the group; failures live in errs.
	_ = g.Wait()
	return errs, nil
}

func (p *Pool) record(progress *Progress, err error) {
	progress.AddProcessed(err)
	if p.onProgress != nil {
		p.onProgress(progress.Snapshot())
	}
}
