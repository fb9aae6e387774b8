// Package clock derives a trustworthy "now" from the untrusted device clock
// and intermittently reachable network time sources.
package clock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"rozadaar/internal/application"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// SyncResult describes a successful synchronization
type SyncResult struct {
	Source    string
	Offset    time.Duration
	RoundTrip time.Duration
}

// Corrector keeps the offset between the device clock and network time.
// It is safe for concurrent use; the offset is read atomically on every Now.
type Corrector struct {
	device  ports.Clock
	state   *application.LocalState
	sources []ports.TimeSource
	log     logger.Logger

	offsetMs atomic.Int64
	verified atomic.Bool
}

// Ensure Corrector implements ports.Clock
var _ ports.Clock = (*Corrector)(nil)

// NewCorrector creates a corrector trying sources in the given order.
// state may be nil, in which case offsets are not persisted.
func NewCorrector(device ports.Clock, state *application.LocalState, sources []ports.TimeSource, log logger.Logger) *Corrector {
	if device == nil {
		device = ports.SystemClock
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Corrector{
		device:  device,
		state:   state,
		sources: sources,
		log:     log,
	}
}

// Load restores the persisted offset. The corrector stays unverified until
// the next successful Sync.
func (c *Corrector) Load(ctx context.Context) {
	if c.state == nil {
		return
	}
	if ms, ok := c.state.Offset(ctx); ok {
		c.offsetMs.Store(ms)
	}
}

// Now returns the corrected current instant
func (c *Corrector) Now() time.Time {
	return c.device.Now().Add(time.Duration(c.offsetMs.Load()) * time.Millisecond)
}

// Offset returns the current correction
func (c *Corrector) Offset() time.Duration {
	return time.Duration(c.offsetMs.Load()) * time.Millisecond
}

// Verified reports whether a sync succeeded since the process started
func (c *Corrector) Verified() bool {
	return c.verified.Load()
}

// Sync measures the offset against the first source that answers. When
// every source fails the stored offset is left untouched and
// ErrNoTimeSource is returned.
func (c *Corrector) Sync(ctx context.Context) (SyncResult, error) {
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return SyncResult{}, err
		}

		result, err := c.measure(ctx, src)
		if err != nil {
			c.log.Warning("time source %s: %v", src.Name(), err)
			continue
		}

		ms := result.Offset.Milliseconds()
		c.offsetMs.Store(ms)
		c.verified.Store(true)
		if c.state != nil {
			if err := c.state.SaveOffset(ctx, ms); err != nil {
				c.log.Warning("failed to persist time offset: %v", err)
			}
		}
		c.log.Info("time synced via %s: offset %dms (rtt %s)", src.Name(), ms, result.RoundTrip)
		return result, nil
	}
	return SyncResult{}, application.ErrNoTimeSource
}

func (c *Corrector) measure(ctx context.Context, src ports.TimeSource) (SyncResult, error) {
	timeout := src.Timeout()
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sent := c.device.Now()
	reading, err := src.Fetch(fetchCtx)
	received := c.device.Now()
	if err != nil {
		return SyncResult{}, err
	}
	if reading.Instant.IsZero() {
		return SyncResult{}, fmt.Errorf("no instant in response")
	}

	rtt := received.Sub(sent)
	if rtt < 0 {
		rtt = 0
	}
	network := reading.Instant
	if reading.CompensateLatency {
		network = network.Add(rtt / 2)
	}

	return SyncResult{
		Source:    src.Name(),
		Offset:    network.Sub(received),
		RoundTrip: rtt,
	}, nil
}
