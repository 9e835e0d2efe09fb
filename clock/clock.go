package clock

import "time"

// SystemClock provides the wall clock.
type SystemClock struct{}

// NewSystemClock is a constructor for SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// NowUTC returns the current time.Time with UTC location.
func (t *SystemClock) NowUTC() time.Time {
	return time.Now().UTC()
}

// NowUnix returns the current time as a Unix timestamp.
func (t *SystemClock) NowUnix() int64 {
	return time.Now().Unix()
}

// Sleep pauses the current goroutine for at least the passed duration.
func (t *SystemClock) Sleep(duration time.Duration) {
	time.Sleep(duration)
}
