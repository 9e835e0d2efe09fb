package aggregator

// TimerSnapshot is the raw material of one timer bucket for one interval:
// the observed samples and the rate-corrected event count.
type TimerSnapshot struct {
	Samples []float64
	Count   float64
}

// Snapshot is the frozen interval state handed to the flush worker.
type Snapshot struct {
	Timestamp int64
	Counters  map[string]float64
	Gauges    map[string]float64
	Timers    map[string]TimerSnapshot
	Sets      map[string]int
}

// NumStats counts the buckets that will produce flush lines.
func (snapshot *Snapshot) NumStats() int {
	return len(snapshot.Counters) + len(snapshot.Gauges) + len(snapshot.Timers) + len(snapshot.Sets)
}
