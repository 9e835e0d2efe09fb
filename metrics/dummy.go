package metrics

import (
	"sync/atomic"
	"time"
)

// DummyRegistry is an in-memory Registry without any backend, used in tests
// and when telemetry is disabled.
type DummyRegistry struct{}

func NewDummyRegistry() DummyRegistry {
	return DummyRegistry{}
}

func (registry DummyRegistry) NewMeter(path ...string) Meter {
	return &dummyValue{}
}

func (registry DummyRegistry) NewTimer(path ...string) Timer {
	return &dummyValue{}
}

func (registry DummyRegistry) NewHistogram(path ...string) Histogram {
	return &dummyValue{}
}

func (registry DummyRegistry) NewCounter(path ...string) Counter {
	return &dummyValue{}
}

type dummyValue struct {
	count int64
}

func (value *dummyValue) Count() int64 {
	return atomic.LoadInt64(&value.count)
}

func (value *dummyValue) Inc() {
	atomic.AddInt64(&value.count, 1)
}

func (value *dummyValue) Mark(v int64) {
	atomic.AddInt64(&value.count, v)
}

func (value *dummyValue) Update(v int64) {
	atomic.AddInt64(&value.count, 1)
}

func (value *dummyValue) UpdateSince(ts time.Time) {
	atomic.AddInt64(&value.count, 1)
}
