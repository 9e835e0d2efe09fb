package protocol

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLine(t *testing.T) {
	Convey("Valid samples should be parsed", t, func() {
		Convey("Plain counter", func() {
			sample, err := ParseLine([]byte("gorets:1|c"))
			So(err, ShouldBeNil)
			So(sample, ShouldResemble, &Sample{Bucket: "gorets", Type: Counter, Value: 1, Rate: 1})
		})

		Convey("Sampled counter", func() {
			sample, err := ParseLine([]byte("gorets:1|c|@0.1"))
			So(err, ShouldBeNil)
			So(sample.Rate, ShouldEqual, 0.1)
			So(sample.Value, ShouldEqual, 1)
		})

		Convey("Negative counter", func() {
			sample, err := ParseLine([]byte("gorets:-42|c"))
			So(err, ShouldBeNil)
			So(sample.Value, ShouldEqual, -42)
		})

		Convey("Timer", func() {
			sample, err := ParseLine([]byte("glork:320|ms"))
			So(err, ShouldBeNil)
			So(sample, ShouldResemble, &Sample{Bucket: "glork", Type: Timer, Value: 320, Rate: 1})
		})

		Convey("Gauge", func() {
			sample, err := ParseLine([]byte("gaugor:333|g"))
			So(err, ShouldBeNil)
			So(sample.Type, ShouldEqual, Gauge)
			So(sample.IsDelta, ShouldBeFalse)
		})

		Convey("Signed gauges are deltas", func() {
			plus, err := ParseLine([]byte("gaugor:+10|g"))
			So(err, ShouldBeNil)
			So(plus.IsDelta, ShouldBeTrue)
			So(plus.Value, ShouldEqual, 10)

			minus, err := ParseLine([]byte("gaugor:-4|g"))
			So(err, ShouldBeNil)
			So(minus.IsDelta, ShouldBeTrue)
			So(minus.Value, ShouldEqual, -4)
		})

		Convey("Set keeps the raw value", func() {
			sample, err := ParseLine([]byte("uniques:user_17|s"))
			So(err, ShouldBeNil)
			So(sample.Type, ShouldEqual, Set)
			So(sample.StringValue, ShouldEqual, "user_17")
		})

		Convey("Fractional values", func() {
			sample, err := ParseLine([]byte("load:0.75|g"))
			So(err, ShouldBeNil)
			So(sample.Value, ShouldEqual, 0.75)
		})
	})

	Convey("Bucket names should be sanitized", t, func() {
		testCases := []struct {
			input    string
			expected string
		}{
			{"api latency:1|c", "api_latency"},
			{"api/users:1|c", "api-users"},
			{"api.{users}:1|c", "api.users"},
			{"a..b:1|c", "a..b"},
		}

		for _, testCase := range testCases {
			sample, err := ParseLine([]byte(testCase.input))
			So(err, ShouldBeNil)
			So(sample.Bucket, ShouldEqual, testCase.expected)
		}
	})

	Convey("Malformed samples should be rejected", t, func() {
		badLines := []string{
			"",
			"gorets",
			"gorets:",
			"gorets:1",
			"gorets:1|",
			"gorets:1|q",
			"gorets:one|c",
			"gorets:1|c|0.1",
			"gorets:1|c|@",
			"gorets:1|c|@0",
			"gorets:1|c|@1.5",
			"gorets:1|c|@-0.5",
			"gorets:1|c|@0.5|x",
			"gorets:1:2|c",
			":1|c",
			"{}[]:1|c",
			"uniques:|s",
			"gorets:1|c\x00",
			"görets:1|c",
		}

		for _, line := range badLines {
			sample, err := ParseLine([]byte(line))
			So(err, ShouldNotBeNil)
			So(sample, ShouldBeNil)
		}
	})
}

func TestDropCRLF(t *testing.T) {
	Convey("Should drop CRLF", t, func() {
		testCases := []struct {
			input  []byte
			output []byte
		}{
			{[]byte{}, []byte{}},
			{[]byte{'a'}, []byte{'a'}},
			{[]byte{'a', '\n'}, []byte{'a'}},
			{[]byte{'a', '\r', '\n'}, []byte{'a'}},
			{[]byte{'\r', '\n'}, []byte{}},
		}

		for _, testCase := range testCases {
			So(DropCRLF(testCase.input), ShouldResemble, testCase.output)
		}
	})
}
