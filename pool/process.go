package pool

import (
	"context"
	"io"
)

// processPool executes work as child OS processes. Submitted runners must
// implement Execer; anything else is rejected with ErrNotTransferable since
// an arbitrary Go function cannot cross a process boundary.
//
// The child's stdout and stderr are wired to the unit's private sink, never
// to the shared stream, so buffering and ordered release work the same way
// as for in-process work. The supervising goroutine only waits on the
// child; the work itself runs with true process-level parallelism.
type processPool struct {
	bounded
}

// NewProcess returns a process-backed pool running at most capacity child
// processes concurrently. Capacities below one are raised to one.
func NewProcess(capacity int64) Pool {
	p := &processPool{}
	p.init(capacity)
	return p
}

func (p *processPool) Submit(ctx context.Context, r Runner, out io.Writer) (Handle, error) {
	e, ok := r.(Execer)
	if !ok {
		return nil, ErrNotTransferable
	}
	if err := p.admit(ctx); err != nil {
		return nil, err
	}
	return p.supervise(func() error {
		cmd := e.Command(ctx)
		cmd.Stdout = out
		cmd.Stderr = out
		return cmd.Run()
	}), nil
}

func (p *processPool) Close() error { return p.close() }
