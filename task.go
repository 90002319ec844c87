package ppool

import (
	"context"
	"fmt"
	"io"
)

// Task is the canonical task shape used throughout the package.
// It receives a context and a sink for console output and returns a result
// of type R and an error. The sink is a private per-task buffer in buffered
// mode and the (serialized) real stream otherwise; tasks must write all
// console output through it rather than to os.Stdout directly.
//
// Use TaskFunc / TaskValue / TaskError to adapt common function signatures.
type Task[R any] func(ctx context.Context, out io.Writer) (R, error)

// TaskFunc adapts func(ctx, out) (R, error) to Task[R].
func TaskFunc[R any](fn func(ctx context.Context, out io.Writer) (R, error)) Task[R] {
	return Task[R](fn)
}

// TaskValue adapts func(ctx, out) R to Task[R].
func TaskValue[R any](fn func(ctx context.Context, out io.Writer) R) Task[R] {
	return func(ctx context.Context, out io.Writer) (R, error) { return fn(ctx, out), nil }
}

// TaskError adapts func(ctx, out) error to Task[R].
// The returned Task yields the zero value of R alongside the error.
func TaskError[R any](fn func(ctx context.Context, out io.Writer) error) Task[R] {
	return func(ctx context.Context, out io.Writer) (R, error) { var zero R; return zero, fn(ctx, out) }
}

// invoke runs a task with panic recovery. A panicking task surfaces as a
// regular task failure wrapping ErrTaskPanicked instead of taking down the
// whole pool.
func invoke[R any](ctx context.Context, t Task[R], out io.Writer) (result R, err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, ePanic)
		}
	}()

	return t(ctx, out)
}

// taskRunner binds a Task to the pool.Runner contract and retains the result
// for collection after the pool reports completion.
type taskRunner[R any] struct {
	task Task[R]
	val  R
}

func (tr *taskRunner[R]) Run(ctx context.Context, out io.Writer) error {
	val, err := invoke(ctx, tr.task, out)
	tr.val = val
	return err
}

// result must only be called after the runner's completion handle resolved;
// the handle's done channel establishes the happens-before edge.
func (tr *taskRunner[R]) result() R { return tr.val }
