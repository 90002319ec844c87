package ppool

import (
	"io"

	"github.com/wreed4/ppool/metrics"
)

// completion represents one finished task as seen by the sequencer.
// buf is nil in unbuffered mode (output already went to the real stream).
type completion[R any] struct {
	index int
	buf   *outputBuffer
	val   R
	err   error
}

// sequencer is the single writer to the real stream in buffered mode.
// It consumes completion events in arbitrary order and releases each task's
// captured output strictly in ascending submission-index order: a later
// task's buffer may arrive sealed before an earlier one's, but it is held
// until every earlier buffer has been flushed.
//
// The sequencer runs in one goroutine via run() and never closes the events
// channel; the engine closes it once all completions have been delivered.
// Results and per-task errors are recorded into slices indexed by submission
// index, so result ordering is independent of buffering.
type sequencer[R any] struct {
	events <-chan completion[R]
	out    io.Writer

	results []R
	errs    []error

	// first write error on the real stream; later writes are still attempted
	// so that results remain complete.
	writeErr error

	flushed metrics.Histogram
}

func newSequencer[R any](events <-chan completion[R], out io.Writer, n int, ins *instruments) *sequencer[R] {
	return &sequencer[R]{
		events:  events,
		out:     out,
		results: make([]R, n),
		errs:    make([]error, n),
		flushed: ins.flushedBytes,
	}
}

// run executes the release loop until the events channel is closed.
func (s *sequencer[R]) run() {
	next := 0
	pending := make(map[int]completion[R])

	for ev := range s.events {
		pending[ev.index] = ev
		for {
			c, ok := pending[next]
			if !ok {
				break
			}
			s.release(c)
			delete(pending, next)
			next++
		}
	}
}

// release flushes a task's captured output verbatim and records its outcome.
// Flushing is not rolled back on task failure; a failed task's output still
// appears in its correct position.
func (s *sequencer[R]) release(c completion[R]) {
	if c.buf != nil {
		b := c.buf.contents()
		if len(b) > 0 {
			if _, err := s.out.Write(b); err != nil && s.writeErr == nil {
				s.writeErr = err
			}
		}
		s.flushed.Record(float64(len(b)))
	}
	s.results[c.index] = c.val
	s.errs[c.index] = c.err
}
