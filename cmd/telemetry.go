package cmd

import (
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/metrics"
)

// Telemetry is the daemon's own monitoring: a metrics registry plus the
// HTTP endpoint that exposes it.
type Telemetry struct {
	Metrics  metrics.Registry
	stopFunc func()
}

func (source *Telemetry) Stop() {
	source.stopFunc()
}

// ConfigureTelemetry starts the telemetry HTTP listener and builds the
// metrics registry from the configured backends. With an empty listen
// address and graphite disabled the registry is a no-op.
func ConfigureTelemetry(logger stagd.Logger, config TelemetryConfig, service string) (*Telemetry, error) {
	metricRegistries := []metrics.Registry{}
	stopServer := func() {}

	if config.Listen != "" {
		listener, err := net.Listen("tcp", config.Listen)
		if err != nil {
			return nil, err
		}

		serverMux := http.NewServeMux()
		if config.Pprof.Enabled {
			configurePprofServer(serverMux)
		}

		prometheusRegistry := metrics.NewPrometheusRegistry()
		metricRegistries = append(metricRegistries, metrics.NewPrometheusRegistryAdapter(prometheusRegistry, service))
		serverMux.Handle("/metrics", promhttp.InstrumentMetricHandler(prometheusRegistry, promhttp.HandlerFor(prometheusRegistry, promhttp.HandlerOpts{})))

		server := &http.Server{Handler: serverMux}
		go func() {
			server.Serve(listener) //nolint
		}()

		stopServer = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logger.Error().
					Error(err).
					Msg("Can't stop telemetry server correctly")
			}
		}
	}

	if config.Graphite.Enabled {
		graphiteRegistry, err := metrics.NewGraphiteRegistry(config.Graphite.GetSettings(), service)
		if err != nil {
			return nil, err
		}
		metricRegistries = append(metricRegistries, graphiteRegistry)
	}

	if len(metricRegistries) == 0 {
		metricRegistries = append(metricRegistries, metrics.NewDummyRegistry())
	}

	return &Telemetry{
		Metrics:  metrics.NewCompositeRegistry(metricRegistries...),
		stopFunc: stopServer,
	}, nil
}

func configurePprofServer(serverMux *http.ServeMux) {
	serverMux.HandleFunc("/pprof/", pprof.Index)
	serverMux.HandleFunc("/pprof/cmdline", pprof.Cmdline)
	serverMux.HandleFunc("/pprof/profile", pprof.Profile)
	serverMux.HandleFunc("/pprof/symbol", pprof.Symbol)
	serverMux.HandleFunc("/pprof/trace", pprof.Trace)
	serverMux.HandleFunc("/pprof/heap", pprof.Handler("heap").ServeHTTP)
	serverMux.HandleFunc("/pprof/goroutine", pprof.Handler("goroutine").ServeHTTP)
}
