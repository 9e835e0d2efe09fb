package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/aggregator"
	"github.com/stagd/stagd/clock"
	"github.com/stagd/stagd/cmd"
	"github.com/stagd/stagd/flush"
	"github.com/stagd/stagd/graphite"
	"github.com/stagd/stagd/listener"
	logging "github.com/stagd/stagd/logging/zerolog_adapter"
	"github.com/stagd/stagd/management"
	"github.com/stagd/stagd/metrics"
)

const serviceName = "stagd"

var (
	logger                 stagd.Logger
	configFileName         = flag.String("config", "/etc/stagd/stagd.yml", "path to config file")
	printVersion           = flag.Bool("version", false, "Print version and exit")
	printDefaultConfigFlag = flag.Bool("default-config", false, "Print default config and exit")
)

// Stagd version, substituted at build time.
var (
	StagdVersion = "unknown"
	GitCommit    = "unknown"
	GoVersion    = "unknown"
)

func main() {
	flag.Parse()
	if *printVersion {
		fmt.Println("Stagd - stats aggregation daemon")
		fmt.Println("Version:", StagdVersion)
		fmt.Println("Git Commit:", GitCommit)
		fmt.Println("Go Version:", GoVersion)
		os.Exit(0)
	}

	applicationConfig := getDefault()
	if *printDefaultConfigFlag {
		cmd.PrintConfig(applicationConfig)
		os.Exit(0)
	}

	err := cmd.ReadConfig(*configFileName, &applicationConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can not read settings: %s\n", err.Error())
		os.Exit(1)
	}

	if err = applicationConfig.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %s\n", err.Error())
		os.Exit(1)
	}

	logger, err = logging.ConfigureLog(applicationConfig.Logger.LogFile, applicationConfig.Logger.LogLevel, serviceName, applicationConfig.Logger.LogPrettyFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can not configure log: %s\n", err.Error())
		os.Exit(1)
	}
	defer logger.Info().
		String("version", StagdVersion).
		Msg("Stagd stopped")

	telemetry, err := cmd.ConfigureTelemetry(logger, applicationConfig.Telemetry, serviceName)
	if err != nil {
		logger.Fatal().
			Error(err).
			Msg("Can not configure telemetry")
	}
	defer telemetry.Stop()

	daemonMetrics := metrics.ConfigureDaemonMetrics(telemetry.Metrics)
	systemClock := clock.NewSystemClock()
	storage := aggregator.NewStorage()

	stagdConfig := applicationConfig.Stagd
	workerCnt := stagdConfig.MaxParallelAggregations
	if workerCnt == 0 {
		workerCnt = runtime.NumCPU()
		logger.Info().
			Int("workers", workerCnt).
			Msg("MaxParallelAggregations is not configured, set it to the number of CPU")
	}

	metricsListener, err := listener.NewListener(stagdConfig.Port, logger, daemonMetrics)
	if err != nil {
		logger.Fatal().
			Error(err).
			Int("port", stagdConfig.Port).
			Msg("Failed to start listen")
	}
	datagramChan := metricsListener.Listen()

	aggregationWorker := aggregator.NewWorker(logger, daemonMetrics, storage, stagdConfig.DumpMessages)
	aggregationWorker.Start(workerCnt, datagramChan)

	console := management.NewConsole(storage, daemonMetrics, systemClock)
	managementListener, err := management.NewListener(stagdConfig.ManagementPort, logger, console)
	if err != nil {
		logger.Fatal().
			Error(err).
			Int("port", stagdConfig.ManagementPort).
			Msg("Failed to start management listen")
	}
	managementListener.Listen()

	var sender flush.Sender
	var backend *graphite.Client
	if stagdConfig.GraphiteHost != "" {
		backend = graphite.NewClient(stagdConfig.getGraphiteSettings(), logger)
		sender = backend
	} else {
		logger.Info().Msg("No backend configured, running dry")
	}

	flushWorker := flush.NewWorker(logger, daemonMetrics, storage, sender, systemClock, stagdConfig.getFlushSettings())
	flushWorker.Start()

	var dumper *flush.Dumper
	if stagdConfig.Debug {
		dumper = flush.NewDumper(logger, storage, stagdConfig.debugInterval())
		dumper.Start()
	}

	defer closeBackend(backend)
	defer stopFlushWorker(flushWorker) // Final flush before the backend closes
	defer stopDumper(dumper)
	defer stopManagementListener(managementListener)
	defer stopAggregationWorker(aggregationWorker) // Drains the datagram channel
	defer stopListener(metricsListener)            // First stop the inbound listener

	logger.Info().
		String("version", StagdVersion).
		Int("port", stagdConfig.Port).
		Int("management_port", stagdConfig.ManagementPort).
		Msg("Stagd started")

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	logger.Info().
		String("signal", fmt.Sprint(<-ch)).
		Msg("Stagd shutting down")
}

func stopListener(metricsListener *listener.MetricsListener) {
	if err := metricsListener.Stop(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to stop listener")
	}
}

func stopAggregationWorker(worker *aggregator.Worker) {
	if err := worker.Stop(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to stop aggregation worker")
	}
}

func stopManagementListener(managementListener *management.Listener) {
	if err := managementListener.Stop(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to stop management listener")
	}
}

func stopDumper(dumper *flush.Dumper) {
	if dumper == nil {
		return
	}
	if err := dumper.Stop(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to stop debug dumper")
	}
}

func stopFlushWorker(worker *flush.Worker) {
	if err := worker.Stop(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to stop flush worker")
	}
}

func closeBackend(backend *graphite.Client) {
	if backend == nil {
		return
	}
	if err := backend.Close(); err != nil {
		logger.Error().
			Error(err).
			Msg("Failed to close backend connection")
	}
}
