package ppool

import (
	"context"
	"io"
)

// Map fans items through fn concurrently and returns one result per item, in
// item order, regardless of completion order and of the buffering mode.
//
// By default tasks run on a goroutine-backed pool sized to the batch, with
// per-task output capture: everything fn writes to out is released to the
// real stream as one contiguous block, blocks appearing in item order. See
// WithUnbuffered, WithForeground, WithMaxWorkers, and WithOutput.
//
// Map blocks until all tasks have finished. Per-item failures do not abort
// the rest of the batch; they are aggregated with errors.Join and each is
// extractable with ExtractTaskIndex. Selecting WithProcessPool fails fast
// with pool.ErrNotTransferable: a Go function cannot cross a process
// boundary; use MapCommands for transferable work.
func Map[T, R any](
	ctx context.Context,
	items []T,
	fn func(ctx context.Context, out io.Writer, item T) (R, error),
	opts ...Option,
) ([]R, error) {
	if len(items) == 0 {
		// Still surface option errors for parity with non-empty input.
		_, err := buildConfig(opts)
		return nil, err
	}
	tasks := make([]Task[R], 0, len(items))
	for i := range items {
		item := items[i] // capture
		tasks = append(tasks, TaskFunc(func(c context.Context, out io.Writer) (R, error) {
			return fn(c, out, item)
		}))
	}
	return Run(ctx, tasks, opts...)
}

// Run executes tasks with the same semantics as Map: results in submission
// order, output released in submission order when buffered.
func Run[R any](ctx context.Context, tasks []Task[R], opts ...Option) ([]R, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	rs := make([]engineRunner[R], 0, len(tasks))
	for _, t := range tasks {
		rs = append(rs, &taskRunner[R]{task: t})
	}
	return execute(ctx, rs, cfg, poolGoroutine)
}

// MapCommands runs one external command per item and returns per-command
// exit information in item order. Commands run on the process-backed pool
// unless WithGoroutinePool or WithForeground is selected; either way each
// item executes as its own OS process with stdout and stderr captured into
// the task's sink.
//
// A non-zero exit is a task failure: it is tagged with the item index and
// aggregated into the returned error, while the ExecResult at that index
// still records the exit code.
func MapCommands[T any](
	ctx context.Context,
	items []T,
	fn func(item T) Command,
	opts ...Option,
) ([]ExecResult, error) {
	if len(items) == 0 {
		_, err := buildConfig(opts)
		return nil, err
	}
	cmds := make([]Command, 0, len(items))
	for i := range items {
		cmds = append(cmds, fn(items[i]))
	}
	return RunCommands(ctx, cmds, opts...)
}

// RunCommands executes cmds with the same semantics as MapCommands.
func RunCommands(ctx context.Context, cmds []Command, opts ...Option) ([]ExecResult, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	if len(cmds) == 0 {
		return nil, nil
	}
	rs := make([]engineRunner[ExecResult], 0, len(cmds))
	for i := range cmds {
		rs = append(rs, &commandRunner{spec: cmds[i]})
	}
	return execute(ctx, rs, cfg, poolProcess)
}
