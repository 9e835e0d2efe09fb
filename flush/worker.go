package flush

import (
	"bytes"
	"time"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/aggregator"
	"github.com/stagd/stagd/metrics"
)

// Sender delivers one rendered flush payload downstream.
type Sender interface {
	Send(payload []byte) error
}

// Config is the flush worker configuration.
type Config struct {
	Interval        time.Duration
	Percentiles     []float64
	Prefix          string
	DeleteIdleStats bool
	Debug           bool
}

// Worker periodically snapshots the aggregation storage, renders the
// payload and delivers it. With a nil sender the daemon runs dry:
// aggregates are reset on schedule and delivered nowhere.
type Worker struct {
	logger  stagd.Logger
	metrics *metrics.DaemonMetrics
	storage *aggregator.Storage
	sender  Sender
	clock   stagd.Clock
	config  Config
	tomb    tomb.Tomb
}

// NewWorker creates a flush worker.
func NewWorker(
	logger stagd.Logger,
	daemonMetrics *metrics.DaemonMetrics,
	storage *aggregator.Storage,
	sender Sender,
	workerClock stagd.Clock,
	config Config,
) *Worker {
	return &Worker{
		logger:  logger,
		metrics: daemonMetrics,
		storage: storage,
		sender:  sender,
		clock:   workerClock,
		config:  config,
	}
}

// Start begins the flush loop.
func (worker *Worker) Start() {
	worker.tomb.Go(func() error {
		flushTicker := time.NewTicker(worker.config.Interval)
		defer flushTicker.Stop()
		for {
			select {
			case <-worker.tomb.Dying():
				worker.Flush()
				worker.logger.Info().Msg("Stagd flush worker stopped")
				return nil
			case <-flushTicker.C:
				worker.Flush()
			}
		}
	})
	worker.logger.Info().
		String("interval", worker.config.Interval.String()).
		Interface("dry", worker.sender == nil).
		Msg("Stagd flush worker started")
}

// Stop performs a final flush and stops the loop.
func (worker *Worker) Stop() error {
	worker.tomb.Kill(nil)
	return worker.tomb.Wait()
}

// Flush snapshots, renders and delivers one interval.
func (worker *Worker) Flush() {
	timer := time.Now()
	snapshot := worker.storage.Snapshot(worker.clock.NowUnix(), worker.config.DeleteIdleStats)
	payload := Render(snapshot, RenderConfig{
		Prefix:      worker.config.Prefix,
		Interval:    worker.config.Interval,
		Percentiles: worker.config.Percentiles,
	})
	worker.metrics.FlushedPoints.Mark(int64(bytes.Count(payload, []byte{'\n'})))

	if worker.config.Debug {
		worker.logger.Info().
			Int("num_stats", snapshot.NumStats()).
			String("payload", string(payload)).
			Msg("Flush payload")
	}

	if worker.sender != nil {
		if err := worker.sender.Send(payload); err != nil {
			worker.metrics.FlushErrors.Inc()
			worker.logger.Error().
				Error(err).
				Int("num_stats", snapshot.NumStats()).
				Msg("Failed to deliver flush payload, dropping interval")
		}
	}
	worker.metrics.FlushTimer.UpdateSince(timer)
}
