package ppool

import "github.com/wreed4/ppool/metrics"

// Instrument names recorded by the execution engine.
const (
	MetricTasksStarted   = "ppool.tasks_started"
	MetricTasksSucceeded = "ppool.tasks_succeeded"
	MetricTasksFailed    = "ppool.tasks_failed"
	MetricTasksInflight  = "ppool.tasks_inflight"
	MetricFlushedBytes   = "ppool.flushed_bytes"
)

type instruments struct {
	started      metrics.Counter
	succeeded    metrics.Counter
	failed       metrics.Counter
	inflight     metrics.UpDownCounter
	flushedBytes metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		started:      p.Counter(MetricTasksStarted),
		succeeded:    p.Counter(MetricTasksSucceeded),
		failed:       p.Counter(MetricTasksFailed),
		inflight:     p.UpDownCounter(MetricTasksInflight),
		flushedBytes: p.Histogram(MetricFlushedBytes),
	}
}

func (ins *instruments) taskDone(err error) {
	ins.inflight.Add(-1)
	if err != nil {
		ins.failed.Add(1)
		return
	}
	ins.succeeded.Add(1)
}
