// Package metrics defines the minimal instrument surface ppool records to.
// The package ships an in-memory Basic provider for tests and lightweight
// apps and a Nop provider used when metrics are not configured. Adapters to
// real metric backends implement Provider.
package metrics

// Provider constructs instruments used to record measurements.
// Implementations must be safe for concurrent use and must return the same
// instrument for the same name.
type Provider interface {
	Counter(name string) Counter
	UpDownCounter(name string) UpDownCounter
	Histogram(name string) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that move up and down, such as in-flight work.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements.
type Histogram interface {
	Record(v float64)
}
