// Package pool provides the execution capability behind ppool: submit a unit
// of work, await its completion, tear the pool down. Two implementations
// exist behind the one interface: a goroutine-backed pool for in-process
// work and a process-backed pool for work that can execute as an operating
// system command.
package pool

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"golang.org/x/sync/semaphore"
)

var (
	ErrClosed = errors.New("pool: closed")

	// ErrNotTransferable is returned by the process-backed pool when the
	// submitted work cannot execute outside the calling process.
	ErrNotTransferable = errors.New("pool: work is not transferable across process boundaries")
)

// Runner is one schedulable unit of work. Everything the work writes to its
// console goes to out.
type Runner interface {
	Run(ctx context.Context, out io.Writer) error
}

// Execer is implemented by runners whose work can execute outside the
// calling process. The process-backed pool requires it.
type Execer interface {
	Command(ctx context.Context) *exec.Cmd
}

// Handle tracks one submitted unit of work.
type Handle interface {
	// Await blocks until the work finishes and returns its error, or until
	// ctx is done.
	Await(ctx context.Context) error
}

// Pool executes submitted work on a bounded set of workers.
type Pool interface {
	// Submit schedules r for execution, blocking while the pool is at
	// capacity. It returns a Handle for the eventual outcome.
	Submit(ctx context.Context, r Runner, out io.Writer) (Handle, error)

	// Close waits for all submitted work to finish and releases the pool.
	// Further Submit calls fail with ErrClosed.
	Close() error
}

type handle struct {
	done chan struct{}
	err  error
}

func (h *handle) Await(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bounded holds the admission and supervision state shared by both pool
// implementations: a weighted semaphore caps concurrency, a WaitGroup lets
// Close wait out in-flight work.
type bounded struct {
	sem *semaphore.Weighted

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (b *bounded) init(capacity int64) {
	if capacity < 1 {
		capacity = 1
	}
	b.sem = semaphore.NewWeighted(capacity)
}

// admit reserves a worker slot, blocking while the pool is saturated.
func (b *bounded) admit(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	if err := b.sem.Acquire(ctx, 1); err != nil {
		b.wg.Done()
		return err
	}
	return nil
}

// supervise runs fn on a fresh goroutine, releasing the slot and resolving
// the handle when it returns.
func (b *bounded) supervise(fn func() error) Handle {
	h := &handle{done: make(chan struct{})}
	go func() {
		defer b.wg.Done()
		defer b.sem.Release(1)
		h.err = fn()
		close(h.done)
	}()
	return h
}

func (b *bounded) close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}
