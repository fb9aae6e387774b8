package ports

import (
	"context"
	"time"
)

// Clock provides the current instant. The device clock and the corrected
// clock both satisfy it, which lets tests drive components with synthetic time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the untrusted device clock
var SystemClock Clock = ClockFunc(time.Now)

// TimeReading is what a network time source reports
type TimeReading struct {
	Instant time.Time
	// CompensateLatency asks the caller to add half the round trip to
	// Instant. Sources with coarse resolution leave it false and the instant
	// is attributed to the moment the response was received.
	CompensateLatency bool
}

// TimeSource is a network endpoint reporting the current instant
type TimeSource interface {
	// Name identifies the source in logs
	Name() string

	// Timeout bounds a single Fetch
	Timeout() time.Duration

	// Fetch returns the instant reported by the source
	Fetch(ctx context.Context) (TimeReading, error)
}

// ConnectivityChecker reports whether the remote side is reachable
type ConnectivityChecker interface {
	Check(ctx context.Context) bool
}
