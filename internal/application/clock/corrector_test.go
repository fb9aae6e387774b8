package clock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rozadaar/internal/adapters/memory"
	"rozadaar/internal/application"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSource struct {
	name    string
	reading ports.TimeReading
	err     error
	delay   time.Duration // simulated round trip, applied to the device clock
	device  *fakeClock
	block   bool
	calls   int
}

func (s *fakeSource) Name() string           { return s.name }
func (s *fakeSource) Timeout() time.Duration { return 50 * time.Millisecond }

func (s *fakeSource) Fetch(ctx context.Context) (ports.TimeReading, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return ports.TimeReading{}, ctx.Err()
	}
	if s.device != nil {
		s.device.Advance(s.delay)
	}
	return s.reading, s.err
}

var deviceStart = time.Date(2026, 2, 20, 3, 0, 0, 0, time.UTC)

func newState() *application.LocalState {
	return application.NewLocalState(memory.NewStateStore(), logger.NewNopLogger())
}

func TestCorrector_HeaderSourceUsesReceiptTime(t *testing.T) {
	device := &fakeClock{now: deviceStart}
	network := deviceStart.Add(90 * time.Second)
	src := &fakeSource{
		name:    "header",
		reading: ports.TimeReading{Instant: network.Add(400 * time.Millisecond)},
		delay:   400 * time.Millisecond,
		device:  device,
	}
	state := newState()
	c := NewCorrector(device, state, []ports.TimeSource{src}, logger.NewNopLogger())

	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Offset != 90*time.Second {
		t.Errorf("expected offset 90s, got %v", res.Offset)
	}
	if !c.Verified() {
		t.Error("expected verified after sync")
	}
	if got := c.Now(); !got.Equal(device.Now().Add(90 * time.Second)) {
		t.Errorf("Now() = %v, want device + 90s", got)
	}

	ms, ok := state.Offset(context.Background())
	if !ok || ms != 90_000 {
		t.Errorf("expected persisted offset 90000, got %d (ok=%v)", ms, ok)
	}
}

func TestCorrector_JSONServiceAddsHalfRoundTrip(t *testing.T) {
	device := &fakeClock{now: deviceStart}
	// The service stamped its answer mid-flight: device start + 1s + rtt/2 in network time.
	src := &fakeSource{
		name:    "service",
		reading: ports.TimeReading{Instant: deviceStart.Add(-2 * time.Minute).Add(time.Second), CompensateLatency: true},
		delay:   2 * time.Second,
		device:  device,
	}
	c := NewCorrector(device, nil, []ports.TimeSource{src}, nil)

	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.RoundTrip != 2*time.Second {
		t.Errorf("expected rtt 2s, got %v", res.RoundTrip)
	}
	if res.Offset != -2*time.Minute {
		t.Errorf("expected offset -2m, got %v", res.Offset)
	}
}

func TestCorrector_FallsThroughSources(t *testing.T) {
	device := &fakeClock{now: deviceStart}
	failing := &fakeSource{name: "header", err: errors.New("connection refused")}
	slow := &fakeSource{name: "slow", block: true}
	good := &fakeSource{name: "good", reading: ports.TimeReading{Instant: deviceStart.Add(5 * time.Second)}}
	log := logger.NewMockLogger()

	c := NewCorrector(device, nil, []ports.TimeSource{failing, slow, good}, log)
	res, err := c.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if res.Source != "good" {
		t.Errorf("expected third source to win, got %s", res.Source)
	}
	if len(log.Warnings()) != 2 {
		t.Errorf("expected one warning per failed source, got %v", log.Warnings())
	}
}

func TestCorrector_AllSourcesFailKeepsOffset(t *testing.T) {
	ctx := context.Background()
	device := &fakeClock{now: deviceStart}
	state := newState()
	if err := state.SaveOffset(ctx, 1500); err != nil {
		t.Fatal(err)
	}

	c := NewCorrector(device, state, []ports.TimeSource{
		&fakeSource{name: "a", err: errors.New("dns")},
		&fakeSource{name: "b", reading: ports.TimeReading{}},
	}, nil)
	c.Load(ctx)

	if c.Verified() {
		t.Error("a loaded offset must not count as verified")
	}

	_, err := c.Sync(ctx)
	if !errors.Is(err, application.ErrNoTimeSource) {
		t.Fatalf("expected ErrNoTimeSource, got %v", err)
	}
	if c.Offset() != 1500*time.Millisecond {
		t.Errorf("offset should stay at 1.5s, got %v", c.Offset())
	}
	if ms, _ := state.Offset(ctx); ms != 1500 {
		t.Errorf("persisted offset should be untouched, got %d", ms)
	}
	if c.Verified() {
		t.Error("failed sync must not verify")
	}
}

func TestCorrector_NowWithoutSyncIsDeviceTime(t *testing.T) {
	device := &fakeClock{now: deviceStart}
	c := NewCorrector(device, newState(), nil, nil)
	c.Load(context.Background())

	if !c.Now().Equal(deviceStart) {
		t.Errorf("expected device time, got %v", c.Now())
	}
}
