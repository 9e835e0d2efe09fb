package flush

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/stagd/stagd/aggregator"
)

// RenderConfig controls how a snapshot becomes Graphite plaintext.
type RenderConfig struct {
	// Prefix is prepended to every outgoing metric name when set.
	Prefix string
	// Interval is the flush cadence, used for per-second rates.
	Interval time.Duration
	// Percentiles are the thresholds computed for timer buckets.
	Percentiles []float64
}

// Render produces the Graphite plaintext payload for one snapshot:
// "<name> <value> <unix_ts>\n" per line, in deterministic order.
func Render(snapshot *aggregator.Snapshot, config RenderConfig) []byte {
	var buffer bytes.Buffer
	ts := snapshot.Timestamp
	seconds := config.Interval.Seconds()

	for _, bucket := range sortedFloatKeys(snapshot.Counters) {
		value := snapshot.Counters[bucket]
		writeLine(&buffer, config.Prefix, "stats."+bucket, value/seconds, ts)
		writeLine(&buffer, config.Prefix, "stats_counts."+bucket, value, ts)
	}

	timerBuckets := make([]string, 0, len(snapshot.Timers))
	for bucket := range snapshot.Timers {
		timerBuckets = append(timerBuckets, bucket)
	}
	sort.Strings(timerBuckets)
	for _, bucket := range timerBuckets {
		stats := aggregator.ComputeTimerStats(snapshot.Timers[bucket], config.Interval, config.Percentiles)
		base := "stats.timers." + bucket
		for _, percentile := range stats.Percentiles {
			writeLine(&buffer, config.Prefix, base+".mean_"+percentile.Suffix, percentile.Mean, ts)
			writeLine(&buffer, config.Prefix, base+".upper_"+percentile.Suffix, percentile.Upper, ts)
			writeLine(&buffer, config.Prefix, base+".sum_"+percentile.Suffix, percentile.Sum, ts)
		}
		writeLine(&buffer, config.Prefix, base+".upper", stats.Upper, ts)
		writeLine(&buffer, config.Prefix, base+".lower", stats.Lower, ts)
		writeLine(&buffer, config.Prefix, base+".count", stats.Count, ts)
		writeLine(&buffer, config.Prefix, base+".count_ps", stats.CountPS, ts)
		writeLine(&buffer, config.Prefix, base+".mean", stats.Mean, ts)
	}

	for _, bucket := range sortedFloatKeys(snapshot.Gauges) {
		writeLine(&buffer, config.Prefix, "stats.gauges."+bucket, snapshot.Gauges[bucket], ts)
	}

	setBuckets := make([]string, 0, len(snapshot.Sets))
	for bucket := range snapshot.Sets {
		setBuckets = append(setBuckets, bucket)
	}
	sort.Strings(setBuckets)
	for _, bucket := range setBuckets {
		writeLine(&buffer, config.Prefix, "stats.sets."+bucket+".count", float64(snapshot.Sets[bucket]), ts)
	}

	writeLine(&buffer, config.Prefix, "statsd.numStats", float64(snapshot.NumStats()), ts)
	return buffer.Bytes()
}

func writeLine(buffer *bytes.Buffer, prefix, name string, value float64, ts int64) {
	if prefix != "" {
		name = prefix + "." + name
	}
	fmt.Fprintf(buffer, "%s %s %d\n", name, strconv.FormatFloat(value, 'f', -1, 64), ts)
}

func sortedFloatKeys(view map[string]float64) []string {
	keys := make([]string, 0, len(view))
	for key := range view {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
