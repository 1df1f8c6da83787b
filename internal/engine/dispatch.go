package engine

import (
	"context"
	"fmt"

	"github.com/yourpaljake/hitfinding/internal/detect"
	"github.com/yourpaljake/hitfinding/internal/engine/batch"
	"github.com/yourpaljake/hitfinding/internal/logging"
	"github.com/yourpaljake/hitfinding/internal/resolve"
)

// Dispatcher fans a batch out to a Detector.
type Dispatcher struct {
	detector   detect.Detector
	workers    int
	onProgress batch.ProgressCallback
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkers bounds the number of files processed at once. Non-positive
// values run one unit per file, all at once.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) { d.workers = n }
}

// WithProgress registers a callback invoked after each file finishes.
func WithProgress(cb batch.ProgressCallback) DispatcherOption {
	return func(d *Dispatcher) { d.onProgress = cb }
}

// NewDispatcher returns a Dispatcher over detector.
func NewDispatcher(detector detect.Detector, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{detector: detector}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs detection for every task and returns once all have finished.
// A failing or panicking task marks only its own slot as failed. Tasks that
// had not started when ctx ended are marked failed with the context error.
func (d *Dispatcher) Dispatch(ctx context.Context, b resolve.Batch, params detect.Params) *ResultTable {
	log := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "dispatch").
		Logger()

	table := NewResultTable(len(b))
	if err := checkIndices(b); err != nil {
		log.Error().Err(err).Int("files", len(b)).Msg("batch rejected")
		for i := range b {
			table.fail(i, err)
		}
		return table
	}

	pool := batch.NewPool(d.workers)

	log.Debug().
		Int("files", len(b)).
		Int("workers", pool.Workers()).
		Float32("sigma_fine", params.SigmaFine).
		Float32("sigma_coarse", params.SigmaCoarse).
		Float32("threshold", params.Threshold).
		Msg("dispatching batch")

	pool.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().
			Int("done", s.ProcessedItems).
			Int("total", s.TotalItems).
			Int("failed", s.FailedItems).
			Msg("progress")
		if d.onProgress != nil {
			d.onProgress(s)
		}
	})

	errs, err := pool.Run(ctx, len(b), func(ctx context.Context, i int) error {
		return d.runOne(ctx, table, b[i], params)
	})
	if err != nil {
		// Only reachable with a nil work func or negative count, neither of
		// which this code produces.
		for i := range b {
			table.fail(b[i].Index, err)
		}
		return table
	}

	// Slots the pool skipped on cancellation were never written by runOne.
	for i, e := range errs {
		if e != nil && table.slots[b[i].Index].State == SlotAbsent {
			table.fail(b[i].Index, e)
		}
	}

	return table
}

// checkIndices reports the first task whose Index is not its position.
func checkIndices(b resolve.Batch) error {
	for i, task := range b {
		if task.Index != i {
			return fmt.Errorf("%w: position %d holds index %d (%s)", ErrTaskIndex, i, task.Index, task.Path)
		}
	}
	return nil
}

// runOne is the error boundary for a single task.
func (d *Dispatcher) runOne(ctx context.Context, table *ResultTable, task resolve.FileTask, params detect.Params) (err error) {
	log := logging.FromContext(ctx).With().
		Str("component", "engine").
		Int("index", task.Index).
		Str("path", task.Path).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detection panic: %v", r)
			table.fail(task.Index, err)
			log.Warn().Err(err).Msg("file failed")
		}
	}()

	res, err := d.detector.Detect(ctx, task.Path, params)
	if err != nil {
		table.fail(task.Index, err)
		log.Warn().Err(err).Msg("file failed")
		return err
	}

	table.complete(task.Index, res)
	log.Debug().Int("hits", len(res)).Msg("file done")
	return nil
}
