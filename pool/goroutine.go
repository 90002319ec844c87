package pool

import (
	"context"
	"io"
)

// goroutinePool executes work in-process, one goroutine per running unit.
// Shared memory, no transfer constraints.
type goroutinePool struct {
	bounded
}

// NewGoroutine returns a goroutine-backed pool running at most capacity
// units concurrently. Capacities below one are raised to one.
func NewGoroutine(capacity int64) Pool {
	p := &goroutinePool{}
	p.init(capacity)
	return p
}

func (p *goroutinePool) Submit(ctx context.Context, r Runner, out io.Writer) (Handle, error) {
	if err := p.admit(ctx); err != nil {
		return nil, err
	}
	return p.supervise(func() error { return r.Run(ctx, out) }), nil
}

func (p *goroutinePool) Close() error { return p.close() }
