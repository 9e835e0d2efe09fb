package aggregator

import (
	"sync"

	"github.com/stagd/stagd/protocol"
)

// Buckets of the daemon's own inbound counters, flushed through the same
// pipeline as client metrics.
const (
	PacketsReceivedBucket = "statsd.packets_received"
	BadLinesSeenBucket    = "statsd.bad_lines_seen"
	MetricsReceivedBucket = "statsd.metrics_received"
)

// Storage is the in-memory aggregation state for one flush interval.
// Counters, timers and sets reset on snapshot; gauges persist.
type Storage struct {
	mu sync.Mutex

	counters      map[string]float64
	gauges        map[string]float64
	gaugesChanged map[string]struct{}
	timers        map[string][]float64
	timerCounts   map[string]float64
	sets          map[string]map[string]struct{}
}

// NewStorage creates an empty Storage with the internal counters seeded,
// so they are flushed as zeros even on an idle interval.
func NewStorage() *Storage {
	storage := &Storage{
		counters:      make(map[string]float64),
		gauges:        make(map[string]float64),
		gaugesChanged: make(map[string]struct{}),
		timers:        make(map[string][]float64),
		timerCounts:   make(map[string]float64),
		sets:          make(map[string]map[string]struct{}),
	}
	storage.counters[PacketsReceivedBucket] = 0
	storage.counters[BadLinesSeenBucket] = 0
	storage.counters[MetricsReceivedBucket] = 0
	return storage
}

// Add applies one parsed sample to the interval state.
func (storage *Storage) Add(sample *protocol.Sample) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	switch sample.Type {
	case protocol.Counter:
		storage.counters[sample.Bucket] += sample.Value / sample.Rate
	case protocol.Gauge:
		if sample.IsDelta {
			storage.gauges[sample.Bucket] += sample.Value
		} else {
			storage.gauges[sample.Bucket] = sample.Value
		}
		storage.gaugesChanged[sample.Bucket] = struct{}{}
	case protocol.Timer:
		storage.timers[sample.Bucket] = append(storage.timers[sample.Bucket], sample.Value)
		storage.timerCounts[sample.Bucket] += 1 / sample.Rate
	case protocol.Set:
		members, ok := storage.sets[sample.Bucket]
		if !ok {
			members = make(map[string]struct{})
			storage.sets[sample.Bucket] = members
		}
		members[sample.StringValue] = struct{}{}
	}
}

// IncrCounter adds delta to a counter bucket, used for the daemon's own
// inbound counters.
func (storage *Storage) IncrCounter(bucket string, delta float64) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.counters[bucket] += delta
}

// CounterValue returns the current interval value of a counter bucket.
func (storage *Storage) CounterValue(bucket string) float64 {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return storage.counters[bucket]
}

// Snapshot copies the interval state for flushing and resets it.
// With deleteIdle, idle buckets are forgotten entirely instead of being
// reset to zero; the internal counters are always kept.
func (storage *Storage) Snapshot(timestamp int64, deleteIdle bool) *Snapshot {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	snapshot := &Snapshot{
		Timestamp: timestamp,
		Counters:  make(map[string]float64, len(storage.counters)),
		Gauges:    make(map[string]float64, len(storage.gauges)),
		Timers:    make(map[string]TimerSnapshot, len(storage.timers)),
		Sets:      make(map[string]int, len(storage.sets)),
	}

	for bucket, value := range storage.counters {
		snapshot.Counters[bucket] = value
		if deleteIdle && !isInternalBucket(bucket) {
			delete(storage.counters, bucket)
		} else {
			storage.counters[bucket] = 0
		}
	}

	for bucket, value := range storage.gauges {
		if deleteIdle {
			if _, changed := storage.gaugesChanged[bucket]; !changed {
				continue
			}
		}
		snapshot.Gauges[bucket] = value
	}
	storage.gaugesChanged = make(map[string]struct{})

	for bucket, samples := range storage.timers {
		snapshot.Timers[bucket] = TimerSnapshot{
			Samples: samples,
			Count:   storage.timerCounts[bucket],
		}
		if deleteIdle {
			delete(storage.timers, bucket)
			delete(storage.timerCounts, bucket)
		} else {
			storage.timers[bucket] = nil
			storage.timerCounts[bucket] = 0
		}
	}

	for bucket, members := range storage.sets {
		snapshot.Sets[bucket] = len(members)
		if deleteIdle {
			delete(storage.sets, bucket)
		} else {
			storage.sets[bucket] = make(map[string]struct{})
		}
	}

	return snapshot
}

// Counts returns the number of known buckets per kind, used by the debug dumper.
func (storage *Storage) Counts() (counters, gauges, timers, sets int) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return len(storage.counters), len(storage.gauges), len(storage.timers), len(storage.sets)
}

// CountersView returns a copy of the current counter values.
func (storage *Storage) CountersView() map[string]float64 {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	view := make(map[string]float64, len(storage.counters))
	for bucket, value := range storage.counters {
		view[bucket] = value
	}
	return view
}

// GaugesView returns a copy of the current gauge values.
func (storage *Storage) GaugesView() map[string]float64 {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	view := make(map[string]float64, len(storage.gauges))
	for bucket, value := range storage.gauges {
		view[bucket] = value
	}
	return view
}

// TimersView returns a copy of the timer samples collected this interval.
func (storage *Storage) TimersView() map[string][]float64 {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	view := make(map[string][]float64, len(storage.timers))
	for bucket, samples := range storage.timers {
		view[bucket] = append([]float64(nil), samples...)
	}
	return view
}

// SetsView returns the current set cardinalities.
func (storage *Storage) SetsView() map[string]int {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	view := make(map[string]int, len(storage.sets))
	for bucket, members := range storage.sets {
		view[bucket] = len(members)
	}
	return view
}

// DeleteCounters removes the named counter buckets.
func (storage *Storage) DeleteCounters(buckets []string) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, bucket := range buckets {
		delete(storage.counters, bucket)
	}
}

// DeleteGauges removes the named gauge buckets.
func (storage *Storage) DeleteGauges(buckets []string) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, bucket := range buckets {
		delete(storage.gauges, bucket)
		delete(storage.gaugesChanged, bucket)
	}
}

// DeleteTimers removes the named timer buckets.
func (storage *Storage) DeleteTimers(buckets []string) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, bucket := range buckets {
		delete(storage.timers, bucket)
		delete(storage.timerCounts, bucket)
	}
}

// DeleteSets removes the named set buckets.
func (storage *Storage) DeleteSets(buckets []string) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	for _, bucket := range buckets {
		delete(storage.sets, bucket)
	}
}

func isInternalBucket(bucket string) bool {
	return bucket == PacketsReceivedBucket || bucket == BadLinesSeenBucket || bucket == MetricsReceivedBucket
}
