package main

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stagd/stagd/cmd"
	"github.com/stagd/stagd/flush"
	"github.com/stagd/stagd/graphite"
)

type config struct {
	Stagd     stagdConfig         `yaml:"stagd"`
	Logger    cmd.LoggerConfig    `yaml:"log"`
	Telemetry cmd.TelemetryConfig `yaml:"telemetry"`
}

type stagdConfig struct {
	// UDP port for inbound stat lines.
	Port int `yaml:"port" validate:"required,min=1,max=65535"`
	// TCP port for the management console.
	ManagementPort int `yaml:"management_port" validate:"required,min=1,max=65535"`
	// Graphite backend for aggregated stats. Empty host enables dry mode:
	// aggregate and reset on schedule, deliver nowhere.
	GraphiteHost string `yaml:"graphite_host"`
	GraphitePort int    `yaml:"graphite_port" validate:"min=0,max=65535"`
	// Flush cadence in milliseconds.
	FlushInterval int `yaml:"flush_interval" validate:"required,min=1"`
	// Timer percentiles, a single number or a list.
	PercentThreshold percentiles `yaml:"percent_threshold" validate:"required,dive,gt=0,lte=100"`
	// Prefix prepended to every outgoing metric name.
	StatsPrefix string `yaml:"stats_prefix"`
	// Log rendered flush payloads and periodic aggregate counts.
	Debug bool `yaml:"debug"`
	// Cadence of the debug state dump in milliseconds.
	DebugInterval int `yaml:"debug_interval" validate:"required,min=1"`
	// Log every inbound raw line.
	DumpMessages bool `yaml:"dump_messages"`
	// Omit buckets with no activity this interval instead of flushing zeros.
	DeleteIdleStats bool `yaml:"delete_idle_stats"`
	// Datagram aggregation goroutines. Zero means the number of CPUs.
	MaxParallelAggregations int `yaml:"max_parallel_aggregations" validate:"min=0"`
}

// percentiles accepts both a single number and a list in yaml, the
// percentThreshold contract of the wire-compatible daemons.
type percentiles []float64

func (p *percentiles) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []float64
	if err := unmarshal(&list); err == nil {
		*p = list
		return nil
	}
	var single float64
	if err := unmarshal(&single); err != nil {
		return err
	}
	*p = percentiles{single}
	return nil
}

func (config *stagdConfig) flushInterval() time.Duration {
	return time.Duration(config.FlushInterval) * time.Millisecond
}

func (config *stagdConfig) debugInterval() time.Duration {
	return time.Duration(config.DebugInterval) * time.Millisecond
}

func (config *stagdConfig) getFlushSettings() flush.Config {
	return flush.Config{
		Interval:        config.flushInterval(),
		Percentiles:     []float64(config.PercentThreshold),
		Prefix:          config.StatsPrefix,
		DeleteIdleStats: config.DeleteIdleStats,
		Debug:           config.Debug,
	}
}

func (config *stagdConfig) getGraphiteSettings() graphite.Config {
	return graphite.Config{
		Host: config.GraphiteHost,
		Port: config.GraphitePort,
		// Keep one reconnect sequence shorter than the flush interval so a
		// dead backend can't back up the flush loop.
		MaxElapsedTime: config.flushInterval() / 2,
	}
}

func (config *config) validate() error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	if config.Stagd.GraphiteHost != "" && config.Stagd.GraphitePort == 0 {
		return fmt.Errorf("graphite_port is required when graphite_host is set")
	}
	if config.Stagd.GraphiteHost == "" && config.Stagd.GraphitePort != 0 {
		return fmt.Errorf("graphite_host is required when graphite_port is set")
	}
	return nil
}

func getDefault() config {
	return config{
		Stagd: stagdConfig{
			Port:             8125,
			ManagementPort:   8126,
			FlushInterval:    10000,
			PercentThreshold: percentiles{90},
			DebugInterval:    10000,
		},
		Logger: cmd.LoggerConfig{
			LogFile:  "stdout",
			LogLevel: "info",
		},
		Telemetry: cmd.TelemetryConfig{
			Listen: "",
			Pprof:  cmd.ProfilerConfig{Enabled: false},
			Graphite: cmd.GraphiteConfig{
				Enabled:      false,
				RuntimeStats: false,
				URI:          "localhost:2003",
				Prefix:       "DevOps",
				Interval:     "60s",
			},
		},
	}
}
