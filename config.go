package ppool

import (
	"io"
	"os"

	"github.com/ygrebnov/errorc"
	"golang.org/x/time/rate"

	"github.com/wreed4/ppool/metrics"
)

type poolKind int

const (
	poolDefault poolKind = iota
	poolGoroutine
	poolProcess
)

// config holds per-invocation settings assembled from options.
type config struct {
	// buffered selects per-task output capture with ordered release.
	// Default: true.
	buffered bool

	// foreground runs tasks sequentially on the calling goroutine,
	// bypassing pool and buffering. Default: false.
	foreground bool

	// kind selects the pool implementation. poolDefault resolves to the
	// goroutine-backed pool for Map/ForEach and the process-backed pool for
	// MapCommands.
	kind poolKind

	// maxWorkers caps concurrently running tasks. Zero means one worker per
	// task, so the whole batch runs at once.
	maxWorkers uint

	// output is the real stream. Default: os.Stdout.
	output io.Writer

	// limiter optionally paces task starts.
	limiter *rate.Limiter

	// metrics records execution measurements. Default: metrics.Nop().
	metrics metrics.Provider
}

func defaultConfig() config {
	return config{
		buffered: true,
		output:   os.Stdout,
		metrics:  metrics.Nop(),
	}
}

func buildConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Option configures one Map/MapCommands/ForEach invocation.
// Options return an error on invalid input instead of panicking.
type Option func(*config) error

// WithUnbuffered disables output capture: every task writes straight through
// to the real stream as output is produced. Individual writes do not tear,
// but there is no ordering across tasks. Results remain in input order.
func WithUnbuffered() Option {
	return func(cfg *config) error { cfg.buffered = false; return nil }
}

// WithForeground runs all tasks sequentially on the calling goroutine, in
// input order, with output going directly to the real stream. The pool and
// the buffering machinery are bypassed entirely.
func WithForeground() Option {
	return func(cfg *config) error { cfg.foreground = true; return nil }
}

// WithGoroutinePool selects the goroutine-backed pool: shared memory, no
// transfer constraints. This is the default for Map and ForEach.
func WithGoroutinePool() Option {
	return func(cfg *config) error { cfg.kind = poolGoroutine; return nil }
}

// WithProcessPool selects the process-backed pool. Submitted work must be
// transferable across process boundaries, i.e. a Command; Map and ForEach
// tasks are Go functions and fail with pool.ErrNotTransferable.
func WithProcessPool() Option {
	return func(cfg *config) error { cfg.kind = poolProcess; return nil }
}

// WithMaxWorkers caps the number of concurrently running tasks (must be > 0).
// Without this option the pool is sized to the batch, mirroring one worker
// per input.
func WithMaxWorkers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("option", "WithMaxWorkers requires n > 0"))
		}
		cfg.maxWorkers = n
		return nil
	}
}

// WithOutput sets the real stream that ordered output is released to
// (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("option", "WithOutput requires a non-nil writer"))
		}
		cfg.output = w
		return nil
	}
}

// WithRateLimit paces task starts to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *config) error {
		if perSecond <= 0 || burst < 1 {
			return errorc.With(ErrInvalidConfig, errorc.String("option", "WithRateLimit requires perSecond > 0 and burst >= 1"))
		}
		cfg.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

// WithMetrics records execution measurements to the given provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("option", "WithMetrics requires a non-nil provider"))
		}
		cfg.metrics = p
		return nil
	}
}
