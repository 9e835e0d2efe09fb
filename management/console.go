package management

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/aggregator"
	"github.com/stagd/stagd/metrics"
)

const terminator = "END\n\n"

// Console executes management commands against the aggregation state.
type Console struct {
	storage     *aggregator.Storage
	metrics     *metrics.DaemonMetrics
	clock       stagd.Clock
	startedUnix int64
}

// NewConsole creates a console over the given storage. The inbound totals
// shown by `stats` come from the daemon metrics, which are monotonic, not
// from the per-interval counters.
func NewConsole(storage *aggregator.Storage, daemonMetrics *metrics.DaemonMetrics, clock stagd.Clock) *Console {
	return &Console{
		storage:     storage,
		metrics:     daemonMetrics,
		clock:       clock,
		startedUnix: clock.NowUnix(),
	}
}

// Execute runs one command line and returns the response to write back.
// quit is true when the connection should be closed.
func (console *Console) Execute(line string) (response string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	command, args := fields[0], fields[1:]
	switch command {
	case "help":
		return "Commands: stats, counters, gauges, timers, sets, delcounters, delgauges, deltimers, delsets, quit\n\n", false
	case "stats":
		return console.statsResponse(), false
	case "counters":
		return renderFloats(console.storage.CountersView()), false
	case "gauges":
		return renderFloats(console.storage.GaugesView()), false
	case "timers":
		return renderTimers(console.storage.TimersView()), false
	case "sets":
		return renderCounts(console.storage.SetsView()), false
	case "delcounters":
		console.storage.DeleteCounters(args)
		return renderDeleted(args), false
	case "delgauges":
		console.storage.DeleteGauges(args)
		return renderDeleted(args), false
	case "deltimers":
		console.storage.DeleteTimers(args)
		return renderDeleted(args), false
	case "delsets":
		console.storage.DeleteSets(args)
		return renderDeleted(args), false
	case "quit":
		return "", true
	default:
		return "ERROR\n", false
	}
}

func (console *Console) statsResponse() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "uptime: %d\n", console.clock.NowUnix()-console.startedUnix)
	fmt.Fprintf(&builder, "packets_received: %d\n", console.metrics.PacketsReceived.Count())
	fmt.Fprintf(&builder, "metrics_received: %d\n", console.metrics.SamplesReceived.Count())
	fmt.Fprintf(&builder, "bad_lines_seen: %d\n", console.metrics.BadLinesSeen.Count())
	builder.WriteString(terminator)
	return builder.String()
}

func renderFloats(view map[string]float64) string {
	var builder strings.Builder
	for _, bucket := range sortedKeys(view) {
		fmt.Fprintf(&builder, "%s: %s\n", bucket, strconv.FormatFloat(view[bucket], 'f', -1, 64))
	}
	builder.WriteString(terminator)
	return builder.String()
}

func renderTimers(view map[string][]float64) string {
	buckets := make([]string, 0, len(view))
	for bucket := range view {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	var builder strings.Builder
	for _, bucket := range buckets {
		samples := make([]string, 0, len(view[bucket]))
		for _, sample := range view[bucket] {
			samples = append(samples, strconv.FormatFloat(sample, 'f', -1, 64))
		}
		fmt.Fprintf(&builder, "%s: [%s]\n", bucket, strings.Join(samples, ", "))
	}
	builder.WriteString(terminator)
	return builder.String()
}

func renderCounts(view map[string]int) string {
	buckets := make([]string, 0, len(view))
	for bucket := range view {
		buckets = append(buckets, bucket)
	}
	sort.Strings(buckets)

	var builder strings.Builder
	for _, bucket := range buckets {
		fmt.Fprintf(&builder, "%s: %d\n", bucket, view[bucket])
	}
	builder.WriteString(terminator)
	return builder.String()
}

func renderDeleted(buckets []string) string {
	var builder strings.Builder
	for _, bucket := range buckets {
		fmt.Fprintf(&builder, "deleted: %s\n", bucket)
	}
	builder.WriteString(terminator)
	return builder.String()
}

func sortedKeys(view map[string]float64) []string {
	keys := make([]string, 0, len(view))
	for key := range view {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
