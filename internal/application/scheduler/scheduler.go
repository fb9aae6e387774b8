// Package scheduler drives the countdown and the background work around it:
// the once-a-second tick, connectivity probing and periodic syncing.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"rozadaar/internal/application"
	"rozadaar/internal/application/clock"
	"rozadaar/internal/application/countdown"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// Default intervals
const (
	DefaultTickInterval  = time.Second
	DefaultCheckInterval = 2 * time.Second
	DefaultSyncInterval  = time.Minute

	// ResumeGap is the device-clock gap between ticks taken as a resume
	// from suspension
	ResumeGap = 5 * time.Second
)

// TimeSyncer measures the clock offset
type TimeSyncer interface {
	Sync(ctx context.Context) (clock.SyncResult, error)
}

// DataSyncer refreshes the local cache from the remote source
type DataSyncer interface {
	SyncOnce(ctx context.Context) (reconcile.Result, error)
}

// Options configures a Scheduler. Zero intervals select the defaults.
type Options struct {
	TickInterval  time.Duration
	CheckInterval time.Duration
	SyncInterval  time.Duration

	// OnTick receives every evaluated countdown. It runs on the tick loop
	// and must not block.
	OnTick func(domain.Countdown)
}

// Scheduler runs the tick, connectivity and poll loops under one errgroup
type Scheduler struct {
	engine  *countdown.Engine
	catalog *application.Catalog
	timer   TimeSyncer
	data    DataSyncer
	checker ports.ConnectivityChecker
	device  ports.Clock
	log     logger.Logger
	opts    Options

	online   atomic.Bool
	timeKick chan struct{}
	dataKick chan struct{}
}

// New creates a scheduler. data and checker may be nil: without a checker the
// scheduler assumes it is always online, without data it never syncs.
func New(engine *countdown.Engine, catalog *application.Catalog, timer TimeSyncer, data DataSyncer, checker ports.ConnectivityChecker, log logger.Logger, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = DefaultCheckInterval
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Scheduler{
		engine:   engine,
		catalog:  catalog,
		timer:    timer,
		data:     data,
		checker:  checker,
		device:   ports.SystemClock,
		log:      log,
		opts:     opts,
		timeKick: make(chan struct{}, 1),
		dataKick: make(chan struct{}, 1),
	}
}

// Online reports the last connectivity check result
func (s *Scheduler) Online() bool {
	return s.online.Load()
}

// Resume requests a time sync, for hosts that learn about a resume or a
// regained focus on their own
func (s *Scheduler) Resume() {
	kick(s.timeKick)
}

// SyncNow requests a data sync outside the poll schedule
func (s *Scheduler) SyncNow() {
	kick(s.dataKick)
}

// Run blocks until ctx is cancelled or a loop fails
func (s *Scheduler) Run(ctx context.Context) error {
	if s.checkOnline(ctx) {
		s.Resume()
		s.SyncNow()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.tickLoop(ctx) })
	g.Go(func() error { return s.connectivityLoop(ctx) })
	g.Go(func() error { return s.pollLoop(ctx) })
	g.Go(func() error { return s.worker(ctx) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// Tick evaluates one countdown immediately
func (s *Scheduler) Tick(ctx context.Context) domain.Countdown {
	settings := s.catalog.Settings()
	c := s.engine.Tick(ctx, s.catalog.Table(), settings.AlertConfig())
	if s.opts.OnTick != nil {
		s.opts.OnTick(c)
	}
	return c
}

func (s *Scheduler) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	last := s.device.Now()
	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := s.device.Now()
			if gap := now.Sub(last); gap > ResumeGap || gap < -ResumeGap {
				s.log.Info("tick gap of %s, resyncing time", gap.Round(time.Second))
				s.Resume()
			}
			last = now
			s.Tick(ctx)
		}
	}
}

func (s *Scheduler) connectivityLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			was := s.online.Load()
			now := s.checkOnline(ctx)
			switch {
			case !was && now:
				s.log.Info("connection restored")
				s.Resume()
				s.SyncNow()
			case was && !now:
				s.log.Warning("connection lost")
			}
		}
	}
}

func (s *Scheduler) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.online.Load() {
				s.SyncNow()
			}
		}
	}
}

// worker performs the network work requested by the loops so that none of
// them blocks on I/O
func (s *Scheduler) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.timeKick:
			if s.timer == nil || !s.online.Load() {
				continue
			}
			if _, err := s.timer.Sync(ctx); err != nil && ctx.Err() == nil {
				s.log.Warning("time sync failed: %v", err)
			}
		case <-s.dataKick:
			if s.data == nil || !s.online.Load() || !s.catalog.Settings().AutoSync {
				continue
			}
			if _, err := s.data.SyncOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warning("sync failed: %v", err)
			}
		}
	}
}

func (s *Scheduler) checkOnline(ctx context.Context) bool {
	online := true
	if s.checker != nil {
		online = s.checker.Check(ctx)
	}
	s.online.Store(online)
	return online
}

func kick(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
