package flush

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stagd/stagd/aggregator"
)

func TestRender(t *testing.T) {
	snapshot := &aggregator.Snapshot{
		Timestamp: 1000,
		Counters:  map[string]float64{"gorets": 7},
		Gauges:    map[string]float64{"gaugor": 333},
		Timers: map[string]aggregator.TimerSnapshot{
			"glork": {Samples: []float64{320, 100}, Count: 2},
		},
		Sets: map[string]int{"uniques": 2},
	}
	config := RenderConfig{Interval: 10 * time.Second, Percentiles: []float64{90}}

	Convey("Snapshot should render as Graphite plaintext", t, func() {
		payload := string(Render(snapshot, config))
		lines := strings.Split(strings.TrimSuffix(payload, "\n"), "\n")

		Convey("Counters produce a per-second rate and a raw count", func() {
			So(lines, ShouldContain, "stats.gorets 0.7 1000")
			So(lines, ShouldContain, "stats_counts.gorets 7 1000")
		})

		Convey("Timers produce percentile and base aggregates", func() {
			So(lines, ShouldContain, "stats.timers.glork.mean_90 210 1000")
			So(lines, ShouldContain, "stats.timers.glork.upper_90 320 1000")
			So(lines, ShouldContain, "stats.timers.glork.sum_90 420 1000")
			So(lines, ShouldContain, "stats.timers.glork.upper 320 1000")
			So(lines, ShouldContain, "stats.timers.glork.lower 100 1000")
			So(lines, ShouldContain, "stats.timers.glork.count 2 1000")
			So(lines, ShouldContain, "stats.timers.glork.count_ps 0.2 1000")
			So(lines, ShouldContain, "stats.timers.glork.mean 210 1000")
		})

		Convey("Gauges and sets keep their namespaces", func() {
			So(lines, ShouldContain, "stats.gauges.gaugor 333 1000")
			So(lines, ShouldContain, "stats.sets.uniques.count 2 1000")
		})

		Convey("The bucket count is reported", func() {
			So(lines, ShouldContain, "statsd.numStats 4 1000")
		})
	})

	Convey("The configured prefix is prepended to every name", t, func() {
		prefixed := config
		prefixed.Prefix = "acme"
		payload := string(Render(snapshot, prefixed))

		So(payload, ShouldContainSubstring, "acme.stats.gorets 0.7 1000\n")
		So(payload, ShouldContainSubstring, "acme.stats.timers.glork.upper 320 1000\n")
		So(payload, ShouldContainSubstring, "acme.statsd.numStats 4 1000\n")
		So(payload, ShouldNotContainSubstring, "\nstats.gorets")
	})

	Convey("An empty snapshot still reports numStats", t, func() {
		empty := &aggregator.Snapshot{Timestamp: 1000}
		payload := string(Render(empty, config))
		So(payload, ShouldEqual, "statsd.numStats 0 1000\n")
	})
}
