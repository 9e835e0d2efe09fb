package metrics

// DaemonMetrics is the collection of self-monitoring metrics for the daemon.
type DaemonMetrics struct {
	PacketsReceived    Counter
	LinesReceived      Counter
	SamplesReceived    Counter
	BadLinesSeen       Counter
	AggregationTimer   Timer
	FlushTimer         Timer
	FlushedPoints      Meter
	FlushErrors        Counter
	DatagramChannelLen Histogram
}

// ConfigureDaemonMetrics initializes metrics.
func ConfigureDaemonMetrics(registry Registry) *DaemonMetrics {
	return &DaemonMetrics{
		PacketsReceived:    registry.NewCounter("received", "packets"),
		LinesReceived:      registry.NewCounter("received", "lines"),
		SamplesReceived:    registry.NewCounter("received", "samples"),
		BadLinesSeen:       registry.NewCounter("received", "bad"),
		AggregationTimer:   registry.NewTimer("time", "aggregate"),
		FlushTimer:         registry.NewTimer("time", "flush"),
		FlushedPoints:      registry.NewMeter("flush", "points"),
		FlushErrors:        registry.NewCounter("flush", "errors"),
		DatagramChannelLen: registry.NewHistogram("datagramsToAggregate"),
	}
}
