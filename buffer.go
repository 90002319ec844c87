package ppool

import (
	"bytes"
	"io"
	"sync"
)

// outputBuffer is the private, append-only sink owned by a single in-flight
// task. Exactly one goroutine writes to it (the task) and exactly one reads
// it (the sequencer), strictly after the task's completion event has been
// delivered, so no locking is required.
type outputBuffer struct {
	buf bytes.Buffer
}

func newOutputBuffer() *outputBuffer { return &outputBuffer{} }

func (b *outputBuffer) Write(p []byte) (int, error) { return b.buf.Write(p) }

// contents returns the captured bytes without copying. Valid only once the
// owning task has finished.
func (b *outputBuffer) contents() []byte { return b.buf.Bytes() }

// syncWriter serializes writes to the real stream in unbuffered mode.
// Individual Write calls do not tear, but there is no ordering across tasks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter { return &syncWriter{w: w} }

func (sw *syncWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}
