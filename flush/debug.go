package flush

import (
	"time"

	"gopkg.in/tomb.v2"

	"github.com/stagd/stagd"
	"github.com/stagd/stagd/aggregator"
)

// Dumper periodically logs the aggregation state size, enabled in debug
// mode.
type Dumper struct {
	logger   stagd.Logger
	storage  *aggregator.Storage
	interval time.Duration
	tomb     tomb.Tomb
}

// NewDumper creates a debug state dumper.
func NewDumper(logger stagd.Logger, storage *aggregator.Storage, interval time.Duration) *Dumper {
	return &Dumper{
		logger:   logger,
		storage:  storage,
		interval: interval,
	}
}

// Start begins the dump loop.
func (dumper *Dumper) Start() {
	dumper.tomb.Go(func() error {
		dumpTicker := time.NewTicker(dumper.interval)
		defer dumpTicker.Stop()
		for {
			select {
			case <-dumper.tomb.Dying():
				dumper.logger.Info().Msg("Stagd debug dumper stopped")
				return nil
			case <-dumpTicker.C:
				counters, gauges, timers, sets := dumper.storage.Counts()
				dumper.logger.Info().
					Int("counters", counters).
					Int("gauges", gauges).
					Int("timers", timers).
					Int("sets", sets).
					Msg("Aggregation state")
			}
		}
	})
	dumper.logger.Info().
		String("interval", dumper.interval.String()).
		Msg("Stagd debug dumper started")
}

// Stop stops the dump loop.
func (dumper *Dumper) Stop() error {
	dumper.tomb.Kill(nil)
	return dumper.tomb.Wait()
}
