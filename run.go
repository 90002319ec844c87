package ppool

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/wreed4/ppool/pool"
)

// engineRunner is the per-task binding submitted to a pool: taskRunner for
// Go functions, commandRunner for Commands. result() is read by the engine
// only after the task's handle has resolved.
type engineRunner[R any] interface {
	pool.Runner
	result() R
}

func newPool(cfg *config, fallback poolKind, n int) pool.Pool {
	capacity := int64(n)
	if cfg.maxWorkers > 0 {
		capacity = int64(cfg.maxWorkers)
	}
	kind := cfg.kind
	if kind == poolDefault {
		kind = fallback
	}
	if kind == poolProcess {
		return pool.NewProcess(capacity)
	}
	return pool.NewGoroutine(capacity)
}

// execute drives one batch to completion and returns results in submission
// order. fallback names the pool implementation used when no pool option was
// given.
func execute[R any](ctx context.Context, rs []engineRunner[R], cfg *config, fallback poolKind) ([]R, error) {
	if len(rs) == 0 {
		return nil, nil
	}
	ins := newInstruments(cfg.metrics)
	if cfg.foreground {
		return runForeground(ctx, rs, cfg, ins)
	}
	return runPooled(ctx, rs, cfg, fallback, ins)
}

// runForeground executes tasks one at a time on the calling goroutine,
// writing directly to the real stream. Output is naturally ordered.
//
// A task failure does not abort the remaining tasks: the batch runs to
// completion and failures are aggregated, matching the pooled path so that
// WithForeground changes scheduling only, never results.
func runForeground[R any](ctx context.Context, rs []engineRunner[R], cfg *config, ins *instruments) ([]R, error) {
	results := make([]R, len(rs))
	errs := make([]error, len(rs))
	for i, r := range rs {
		if cfg.limiter != nil {
			if err := cfg.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		ins.started.Add(1)
		ins.inflight.Add(1)
		err := r.Run(ctx, cfg.output)
		if err != nil {
			err = newTaskIndexedError(err, i)
		}
		ins.taskDone(err)
		results[i] = r.result()
		errs[i] = err
	}
	return results, errors.Join(errs...)
}

// runPooled dispatches the whole batch to a pool and releases output through
// the sequencer. The calling goroutine blocks until every dispatched task
// has completed and its output has been flushed.
func runPooled[R any](ctx context.Context, rs []engineRunner[R], cfg *config, fallback poolKind, ins *instruments) ([]R, error) {
	n := len(rs)
	p := newPool(cfg, fallback, n)
	defer p.Close()

	events := make(chan completion[R], n)
	seq := newSequencer(events, cfg.output, n, ins)
	var seqWG sync.WaitGroup
	seqWG.Add(1)
	go func() {
		defer seqWG.Done()
		seq.run()
	}()

	// In unbuffered mode every task shares one serialized passthrough writer.
	var shared io.Writer
	if !cfg.buffered {
		shared = newSyncWriter(cfg.output)
	}

	var collectWG sync.WaitGroup
	var submitErr error
	for i, r := range rs {
		if cfg.limiter != nil {
			if err := cfg.limiter.Wait(ctx); err != nil {
				submitErr = err
				break
			}
		}

		sink := shared
		var buf *outputBuffer
		if cfg.buffered {
			buf = newOutputBuffer()
			sink = buf
		}

		h, err := p.Submit(ctx, r, sink)
		if err != nil {
			submitErr = err
			break
		}
		ins.started.Add(1)
		ins.inflight.Add(1)

		collectWG.Add(1)
		go func(i int, r engineRunner[R], h pool.Handle, buf *outputBuffer) {
			defer collectWG.Done()
			// The batch contract is run-to-completion: cancellation reaches
			// the task through its own ctx and resolves the handle, so the
			// collector waits unconditionally. Awaiting with the caller ctx
			// here would race the task's result write.
			err := h.Await(context.Background())
			if err != nil {
				err = newTaskIndexedError(err, i)
			}
			ins.taskDone(err)
			events <- completion[R]{index: i, buf: buf, val: r.result(), err: err}
		}(i, r, h, buf)
	}

	collectWG.Wait()
	close(events)
	seqWG.Wait()

	if submitErr != nil {
		// Pool-level failure is fatal to the whole invocation. Output of
		// tasks submitted before the failure has already been flushed in
		// order; their results are discarded.
		return nil, submitErr
	}

	errs := seq.errs
	if seq.writeErr != nil {
		errs = append([]error{seq.writeErr}, errs...)
	}
	return seq.results, errors.Join(errs...)
}
