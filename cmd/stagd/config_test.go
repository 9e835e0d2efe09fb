package main

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"
)

func TestPercentThreshold(t *testing.T) {
	Convey("percent_threshold accepts both shapes", t, func() {
		Convey("A single number", func() {
			var parsed stagdConfig
			So(yaml.Unmarshal([]byte("percent_threshold: 90"), &parsed), ShouldBeNil)
			So(parsed.PercentThreshold, ShouldResemble, percentiles{90})
		})

		Convey("A list of numbers", func() {
			var parsed stagdConfig
			So(yaml.Unmarshal([]byte("percent_threshold: [50, 90, 99.9]"), &parsed), ShouldBeNil)
			So(parsed.PercentThreshold, ShouldResemble, percentiles{50, 90, 99.9})
		})

		Convey("Garbage is an error", func() {
			var parsed stagdConfig
			So(yaml.Unmarshal([]byte("percent_threshold: ninety"), &parsed), ShouldNotBeNil)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	Convey("Config validation", t, func() {
		Convey("Defaults are valid", func() {
			applicationConfig := getDefault()
			So(applicationConfig.validate(), ShouldBeNil)
		})

		Convey("Backend host and port come together", func() {
			applicationConfig := getDefault()
			applicationConfig.Stagd.GraphiteHost = "graphite"
			So(applicationConfig.validate(), ShouldNotBeNil)

			applicationConfig.Stagd.GraphitePort = 2003
			So(applicationConfig.validate(), ShouldBeNil)

			applicationConfig.Stagd.GraphiteHost = ""
			So(applicationConfig.validate(), ShouldNotBeNil)
		})

		Convey("Ports must be in range", func() {
			applicationConfig := getDefault()
			applicationConfig.Stagd.Port = 70000
			So(applicationConfig.validate(), ShouldNotBeNil)

			applicationConfig = getDefault()
			applicationConfig.Stagd.ManagementPort = -1
			So(applicationConfig.validate(), ShouldNotBeNil)
		})

		Convey("Percentiles must be in (0, 100]", func() {
			applicationConfig := getDefault()
			applicationConfig.Stagd.PercentThreshold = percentiles{0}
			So(applicationConfig.validate(), ShouldNotBeNil)

			applicationConfig.Stagd.PercentThreshold = percentiles{101}
			So(applicationConfig.validate(), ShouldNotBeNil)

			applicationConfig.Stagd.PercentThreshold = percentiles{0.1, 100}
			So(applicationConfig.validate(), ShouldBeNil)
		})

		Convey("Intervals must be positive", func() {
			applicationConfig := getDefault()
			applicationConfig.Stagd.FlushInterval = 0
			So(applicationConfig.validate(), ShouldNotBeNil)

			applicationConfig = getDefault()
			applicationConfig.Stagd.DebugInterval = -5
			So(applicationConfig.validate(), ShouldNotBeNil)
		})
	})
}

func TestGetSettings(t *testing.T) {
	Convey("Millisecond intervals become durations", t, func() {
		stagdCfg := stagdConfig{
			GraphiteHost:     "graphite",
			GraphitePort:     2003,
			FlushInterval:    10000,
			DebugInterval:    2500,
			PercentThreshold: percentiles{90},
			StatsPrefix:      "acme",
			DeleteIdleStats:  true,
			Debug:            true,
		}

		flushSettings := stagdCfg.getFlushSettings()
		So(flushSettings.Interval, ShouldEqual, 10*time.Second)
		So(flushSettings.Percentiles, ShouldResemble, []float64{90})
		So(flushSettings.Prefix, ShouldEqual, "acme")
		So(flushSettings.DeleteIdleStats, ShouldBeTrue)
		So(flushSettings.Debug, ShouldBeTrue)

		So(stagdCfg.debugInterval(), ShouldEqual, 2500*time.Millisecond)

		graphiteSettings := stagdCfg.getGraphiteSettings()
		So(graphiteSettings.Host, ShouldEqual, "graphite")
		So(graphiteSettings.Port, ShouldEqual, 2003)
		So(graphiteSettings.MaxElapsedTime, ShouldEqual, 5*time.Second)
	})
}
