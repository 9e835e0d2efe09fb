package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stagd/stagd/metrics"
)

func TestGraphiteConfig(t *testing.T) {
	Convey("Test GraphiteConfig.GetSettings", t, func() {
		Convey("With empty config", func() {
			graphiteCfg := GraphiteConfig{}

			expected := metrics.GraphiteRegistryConfig{}
			So(graphiteCfg.GetSettings(), ShouldResemble, expected)
		})

		Convey("With filled config", func() {
			graphiteCfg := GraphiteConfig{
				Enabled:      true,
				RuntimeStats: true,
				URI:          "localhost:2003",
				Prefix:       "DevOps",
				Interval:     "1m",
			}

			expected := metrics.GraphiteRegistryConfig{
				Enabled:      true,
				RuntimeStats: true,
				URI:          "localhost:2003",
				Prefix:       "DevOps",
				Interval:     time.Minute,
			}
			So(graphiteCfg.GetSettings(), ShouldResemble, expected)
		})
	})
}

func TestReadConfig(t *testing.T) {
	Convey("Test ReadConfig", t, func() {
		Convey("Valid yaml file is parsed", func() {
			path := filepath.Join(t.TempDir(), "telemetry.yml")
			raw := []byte("listen: \":8127\"\npprof:\n  enabled: true\ngraphite:\n  enabled: true\n  uri: \"graphite:2003\"\n  interval: \"60s\"\n")
			So(os.WriteFile(path, raw, 0644), ShouldBeNil)

			config := TelemetryConfig{}
			So(ReadConfig(path, &config), ShouldBeNil)
			So(config.Listen, ShouldEqual, ":8127")
			So(config.Pprof.Enabled, ShouldBeTrue)
			So(config.Graphite.URI, ShouldEqual, "graphite:2003")
			So(config.Graphite.GetSettings().Interval, ShouldEqual, time.Minute)
		})

		Convey("Missing file is an error", func() {
			config := TelemetryConfig{}
			So(ReadConfig("/nonexistent/stagd.yml", &config), ShouldNotBeNil)
		})

		Convey("Broken yaml is an error", func() {
			path := filepath.Join(t.TempDir(), "broken.yml")
			So(os.WriteFile(path, []byte("listen: [:::"), 0644), ShouldBeNil)

			config := TelemetryConfig{}
			So(ReadConfig(path, &config), ShouldNotBeNil)
		})
	})
}
