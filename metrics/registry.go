package metrics

import "time"

// Registry creates metric primitives bound to a concrete backend.
type Registry interface {
	NewMeter(path ...string) Meter
	NewTimer(path ...string) Timer
	NewHistogram(path ...string) Histogram
	NewCounter(path ...string) Counter
}

// Meter counts events to produce a rate.
type Meter interface {
	Mark(int64)
	Count() int64
}

// Timer captures the duration of events.
type Timer interface {
	Count() int64
	UpdateSince(time.Time)
}

// Histogram calculates distribution statistics from a series of int64 values.
type Histogram interface {
	Count() int64
	Update(int64)
}

// Counter holds an int64 value that can be incremented.
type Counter interface {
	Count() int64
	Inc()
}
