package aggregator

import (
	"time"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/metrics"
	"github.com/stagd/stagd/protocol"
)

// Worker parses inbound datagrams and applies the samples to the storage.
type Worker struct {
	logger       stagd.Logger
	metrics      *metrics.DaemonMetrics
	storage      *Storage
	dumpMessages bool
	tomb         tomb.Tomb
}

// NewWorker creates an aggregation worker over the given storage.
func NewWorker(logger stagd.Logger, daemonMetrics *metrics.DaemonMetrics, storage *Storage, dumpMessages bool) *Worker {
	return &Worker{
		logger:       logger,
		metrics:      daemonMetrics,
		storage:      storage,
		dumpMessages: dumpMessages,
	}
}

// Start spawns workerCnt goroutines consuming datagramChan. They stop when
// the channel is closed by the listener.
func (worker *Worker) Start(workerCnt int, datagramChan <-chan []byte) {
	worker.logger.Info().
		Int("workers", workerCnt).
		Msg("Starting aggregation workers")
	for i := 0; i < workerCnt; i++ {
		worker.tomb.Go(func() error {
			return worker.consume(datagramChan)
		})
	}
	worker.tomb.Go(func() error {
		return worker.checkDatagramChannelLen(datagramChan)
	})
}

// Stop waits until all pending datagrams are handled.
func (worker *Worker) Stop() error {
	worker.tomb.Kill(nil)
	return worker.tomb.Wait()
}

func (worker *Worker) consume(in <-chan []byte) error {
	for datagram := range in {
		worker.handleDatagram(datagram)
	}
	return nil
}

func (worker *Worker) handleDatagram(datagram []byte) {
	worker.storage.IncrCounter(PacketsReceivedBucket, 1)

	scanner := stagd.NewBytesScanner(datagram, '\n')
	for scanner.HasNext() {
		line := protocol.DropCRLF(scanner.Next())
		if len(line) == 0 {
			continue
		}
		worker.metrics.LinesReceived.Inc()
		if worker.dumpMessages {
			worker.logger.Info().
				String("line", string(line)).
				Msg("Inbound sample")
		}

		sample, err := protocol.ParseLine(line)
		if err != nil {
			worker.metrics.BadLinesSeen.Inc()
			worker.storage.IncrCounter(BadLinesSeenBucket, 1)
			worker.logger.Debug().
				Error(err).
				Msg("Dropped invalid sample line")
			continue
		}

		timer := time.Now()
		worker.storage.Add(sample)
		worker.storage.IncrCounter(MetricsReceivedBucket, 1)
		worker.metrics.SamplesReceived.Inc()
		worker.metrics.AggregationTimer.UpdateSince(timer)
	}
}

func (worker *Worker) checkDatagramChannelLen(channel <-chan []byte) error {
	checkTicker := time.NewTicker(time.Millisecond * 100)
	defer checkTicker.Stop()
	for {
		select {
		case <-worker.tomb.Dying():
			return nil
		case <-checkTicker.C:
			worker.metrics.DatagramChannelLen.Update(int64(len(channel)))
		}
	}
}
