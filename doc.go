// Package ppool runs a batch of tasks concurrently while keeping their
// console output readable: each task writes to a private sink, and the
// captured output is released to the real stream as one contiguous block
// per task, in task-submission order, regardless of completion order.
// Results are always returned in submission order.
//
// Entry points
//   - Map: fan a slice through a Go function on a goroutine-backed pool.
//   - MapCommands: run one OS process per item on a process-backed pool.
//   - ForEach: Map without results.
//
// Modes
//   - Buffered (default): per-task buffers, released in submission order.
//   - Unbuffered (WithUnbuffered): writes pass straight through to the real
//     stream as they happen; no ordering across tasks.
//   - Foreground (WithForeground): tasks run sequentially on the calling
//     goroutine with output going directly to the real stream.
//
// Output capture is explicit: every task receives an io.Writer and writes
// to it. Nothing in this package redirects os.Stdout behind your back.
//
// Failures are captured per task, tagged with the input index, and surfaced
// after all tasks finish as an errors.Join aggregate. A failed task's
// buffered output is still flushed in its correct position.
package ppool
