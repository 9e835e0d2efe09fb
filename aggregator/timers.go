package aggregator

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PercentileStats holds per-threshold timer aggregates. Suffix is the
// threshold formatted for a metric name ("90", "99_9").
type PercentileStats struct {
	Suffix string
	Mean   float64
	Upper  float64
	Sum    float64
}

// TimerStats is the full set of aggregates computed from one timer bucket.
type TimerStats struct {
	Lower       float64
	Upper       float64
	Sum         float64
	Mean        float64
	Count       float64
	CountPS     float64
	Percentiles []PercentileStats
}

// ComputeTimerStats aggregates one interval of timer samples.
// Percentile aggregates consider the fastest threshold-percent of samples,
// the way statsd computes mean_90/upper_90/sum_90.
func ComputeTimerStats(snapshot TimerSnapshot, interval time.Duration, percentiles []float64) TimerStats {
	sorted := append([]float64(nil), snapshot.Samples...)
	sort.Float64s(sorted)

	stats := TimerStats{
		Count:   snapshot.Count,
		CountPS: snapshot.Count / interval.Seconds(),
	}
	if len(sorted) == 0 {
		return stats
	}

	stats.Lower = sorted[0]
	stats.Upper = sorted[len(sorted)-1]
	for _, sample := range sorted {
		stats.Sum += sample
	}
	stats.Mean = stats.Sum / float64(len(sorted))

	for _, percentile := range percentiles {
		stats.Percentiles = append(stats.Percentiles, computePercentile(sorted, percentile))
	}
	return stats
}

func computePercentile(sorted []float64, percentile float64) PercentileStats {
	numInThreshold := len(sorted)
	if len(sorted) > 1 {
		numInThreshold = int(math.Round(percentile / 100 * float64(len(sorted))))
		if numInThreshold == 0 {
			return PercentileStats{Suffix: PercentileSuffix(percentile)}
		}
	}

	sum := 0.0
	for _, sample := range sorted[:numInThreshold] {
		sum += sample
	}

	return PercentileStats{
		Suffix: PercentileSuffix(percentile),
		Mean:   sum / float64(numInThreshold),
		Upper:  sorted[numInThreshold-1],
		Sum:    sum,
	}
}

// PercentileSuffix formats a threshold for use in a metric name:
// the decimal point becomes an underscore ("99.9" -> "99_9").
func PercentileSuffix(percentile float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(percentile, 'g', -1, 64), ".", "_")
}
