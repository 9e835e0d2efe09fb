package protocol

// SampleType is the wire tag of a metric sample.
type SampleType string

const (
	// Counter accumulates rate-corrected deltas per flush interval.
	Counter SampleType = "c"
	// Gauge keeps the last value, or applies a signed delta.
	Gauge SampleType = "g"
	// Timer collects duration samples in milliseconds.
	Timer SampleType = "ms"
	// Set counts unique string values per flush interval.
	Set SampleType = "s"
)

// Sample is a single parsed metric data point.
type Sample struct {
	Bucket string
	Type   SampleType

	// Value is the numeric payload. Unused for sets.
	Value float64
	// StringValue is the raw payload, flushed as a set member.
	StringValue string
	// Rate is the client-side sample rate in (0, 1].
	Rate float64
	// IsDelta marks a signed gauge payload ("+5"/"-3") applied as an offset.
	IsDelta bool
}
