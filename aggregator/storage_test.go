package aggregator

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stagd/stagd/protocol"
)

func TestStorageCounters(t *testing.T) {
	Convey("Counters", t, func() {
		storage := NewStorage()

		Convey("Deltas accumulate within one interval", func() {
			storage.Add(&protocol.Sample{Bucket: "gorets", Type: protocol.Counter, Value: 1, Rate: 1})
			storage.Add(&protocol.Sample{Bucket: "gorets", Type: protocol.Counter, Value: 3, Rate: 1})
			So(storage.CounterValue("gorets"), ShouldEqual, 4)
		})

		Convey("Sample rate scales the stored delta", func() {
			storage.Add(&protocol.Sample{Bucket: "gorets", Type: protocol.Counter, Value: 1, Rate: 0.1})
			So(storage.CounterValue("gorets"), ShouldEqual, 10)
		})

		Convey("Snapshot resets counters to zero but keeps the bucket", func() {
			storage.Add(&protocol.Sample{Bucket: "gorets", Type: protocol.Counter, Value: 7, Rate: 1})
			snapshot := storage.Snapshot(1000, false)
			So(snapshot.Counters["gorets"], ShouldEqual, 7)

			next := storage.Snapshot(1010, false)
			So(next.Counters["gorets"], ShouldEqual, 0)
		})

		Convey("Snapshot with deleteIdle forgets client buckets but keeps internal ones", func() {
			storage.Add(&protocol.Sample{Bucket: "gorets", Type: protocol.Counter, Value: 7, Rate: 1})
			storage.Snapshot(1000, true)

			next := storage.Snapshot(1010, true)
			_, ok := next.Counters["gorets"]
			So(ok, ShouldBeFalse)
			_, ok = next.Counters[PacketsReceivedBucket]
			So(ok, ShouldBeTrue)
		})

		Convey("Internal counters are seeded at zero", func() {
			snapshot := storage.Snapshot(1000, false)
			So(snapshot.Counters[PacketsReceivedBucket], ShouldEqual, 0)
			So(snapshot.Counters[BadLinesSeenBucket], ShouldEqual, 0)
			So(snapshot.Counters[MetricsReceivedBucket], ShouldEqual, 0)
		})
	})
}

func TestStorageGauges(t *testing.T) {
	Convey("Gauges", t, func() {
		storage := NewStorage()

		Convey("Plain value replaces the gauge", func() {
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 333, Rate: 1})
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 100, Rate: 1})
			So(storage.GaugesView()["gaugor"], ShouldEqual, 100)
		})

		Convey("Signed values apply deltas", func() {
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 333, Rate: 1})
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: -10, Rate: 1, IsDelta: true})
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 4, Rate: 1, IsDelta: true})
			So(storage.GaugesView()["gaugor"], ShouldEqual, 327)
		})

		Convey("Gauges persist across snapshots", func() {
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 333, Rate: 1})
			storage.Snapshot(1000, false)

			next := storage.Snapshot(1010, false)
			So(next.Gauges["gaugor"], ShouldEqual, 333)
		})

		Convey("With deleteIdle an untouched gauge is not flushed again", func() {
			storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 333, Rate: 1})
			first := storage.Snapshot(1000, true)
			So(first.Gauges["gaugor"], ShouldEqual, 333)

			next := storage.Snapshot(1010, true)
			_, ok := next.Gauges["gaugor"]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestStorageTimersAndSets(t *testing.T) {
	Convey("Timers", t, func() {
		storage := NewStorage()
		storage.Add(&protocol.Sample{Bucket: "glork", Type: protocol.Timer, Value: 320, Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "glork", Type: protocol.Timer, Value: 100, Rate: 0.5})

		Convey("Samples are collected and the count is rate-corrected", func() {
			snapshot := storage.Snapshot(1000, false)
			So(snapshot.Timers["glork"].Samples, ShouldResemble, []float64{320, 100})
			So(snapshot.Timers["glork"].Count, ShouldEqual, 3)
		})

		Convey("Snapshot clears the samples but keeps the bucket", func() {
			storage.Snapshot(1000, false)
			next := storage.Snapshot(1010, false)
			timer, ok := next.Timers["glork"]
			So(ok, ShouldBeTrue)
			So(timer.Samples, ShouldHaveLength, 0)
			So(timer.Count, ShouldEqual, 0)
		})
	})

	Convey("Sets count unique members per interval", t, func() {
		storage := NewStorage()
		storage.Add(&protocol.Sample{Bucket: "uniques", Type: protocol.Set, StringValue: "a", Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "uniques", Type: protocol.Set, StringValue: "b", Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "uniques", Type: protocol.Set, StringValue: "a", Rate: 1})

		snapshot := storage.Snapshot(1000, false)
		So(snapshot.Sets["uniques"], ShouldEqual, 2)

		next := storage.Snapshot(1010, false)
		So(next.Sets["uniques"], ShouldEqual, 0)
	})
}

func TestStorageManagementOperations(t *testing.T) {
	Convey("Bucket deletion", t, func() {
		storage := NewStorage()
		storage.Add(&protocol.Sample{Bucket: "one", Type: protocol.Counter, Value: 1, Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "two", Type: protocol.Counter, Value: 2, Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "gaugor", Type: protocol.Gauge, Value: 3, Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "glork", Type: protocol.Timer, Value: 4, Rate: 1})
		storage.Add(&protocol.Sample{Bucket: "uniques", Type: protocol.Set, StringValue: "a", Rate: 1})

		storage.DeleteCounters([]string{"one"})
		storage.DeleteGauges([]string{"gaugor"})
		storage.DeleteTimers([]string{"glork"})
		storage.DeleteSets([]string{"uniques"})

		counters := storage.CountersView()
		_, ok := counters["one"]
		So(ok, ShouldBeFalse)
		So(counters["two"], ShouldEqual, 2)
		So(storage.GaugesView(), ShouldBeEmpty)
		So(storage.TimersView(), ShouldBeEmpty)
		So(storage.SetsView(), ShouldBeEmpty)
	})
}
