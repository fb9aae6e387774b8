// Package countdown turns corrected time and a boundary table into a
// per-tick countdown and fires each boundary's alerts exactly once.
package countdown

import (
	"context"
	"sync"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// MaxTickGap is the largest distance between two ticks across which a
// crossed threshold still fires. Longer gaps mean the process was not
// running or was suspended, and missed alerts are never fired late.
const MaxTickGap = 5 * time.Second

// firing records which alerts a boundary instance has already produced
type firing struct {
	offsetFired bool
	exactFired  bool
}

// Engine evaluates ticks and owns the alert firing state
type Engine struct {
	clock      ports.Clock
	dispatcher ports.AlertDispatcher
	loc        *time.Location
	log        logger.Logger

	mu       sync.Mutex
	flags    map[domain.TargetKey]*firing
	current  domain.TargetKey
	previous domain.TargetKey
	last     domain.Countdown
	hasLast  bool
}

// NewEngine creates an engine reading time from clock (normally the
// corrected clock) and evaluating dates in loc
func NewEngine(clock ports.Clock, dispatcher ports.AlertDispatcher, loc *time.Location, log logger.Logger) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if dispatcher == nil {
		dispatcher = ports.DispatcherFunc(func(context.Context, domain.AlertEvent) error { return nil })
	}
	return &Engine{
		clock:      clock,
		dispatcher: dispatcher,
		loc:        loc,
		log:        log,
		flags:      make(map[domain.TargetKey]*firing),
	}
}

// Tick evaluates the current instant and dispatches any due alert.
// Dispatch errors are logged; they never stop the countdown.
func (e *Engine) Tick(ctx context.Context, table *domain.BoundaryTable, cfg domain.AlertConfig) domain.Countdown {
	c, events := e.Observe(e.clock.Now(), table, cfg)
	for _, ev := range events {
		if err := e.dispatcher.Dispatch(ctx, ev); err != nil {
			e.log.Warning("dispatching %s alert for %s: %v", ev.KindName, ev.Key(), err)
		}
	}
	return c
}

// Observe evaluates the countdown at now and returns the alerts that became
// due, marking them fired. Observing the same instant twice never returns
// an alert twice.
func (e *Engine) Observe(now time.Time, table *domain.BoundaryTable, cfg domain.AlertConfig) (domain.Countdown, []domain.AlertEvent) {
	c := domain.Evaluate(now, table, e.loc)

	e.mu.Lock()
	defer e.mu.Unlock()

	var events []domain.AlertEvent

	prev, edge := e.last, false
	if e.hasLast {
		gap := now.Sub(prev.Now)
		edge = gap > 0 && gap <= MaxTickGap
	}

	// A target passed since the last tick fires its exact alert
	if cfg.Enabled && edge && !prev.Complete() {
		if key, ok := prev.Key(); ok && crossed(prev.Now, now, prev.Target) {
			if f := e.flagsFor(key); !f.exactFired {
				f.exactFired = true
				events = append(events, domain.NewExactAlert(prev.Scope, prev.Record, prev.Boundary, prev.Target, now))
			}
		}
	}

	if key, ok := c.Key(); ok {
		e.advance(key)
		f := e.flagsFor(key)

		if cfg.Enabled {
			if minutes := cfg.OffsetFor(c.Boundary); minutes > 0 && !f.offsetFired {
				threshold := time.Duration(minutes) * time.Minute
				due := c.Remaining == threshold ||
					(edge && crossed(prev.Now, now, c.Target.Add(-threshold)))
				if due {
					f.offsetFired = true
					events = append(events, domain.NewOffsetAlert(c, minutes, now))
				}
			}

			if c.Remaining == 0 && !f.exactFired {
				f.exactFired = true
				events = append(events, domain.NewExactAlert(c.Scope, c.Record, c.Boundary, c.Target, now))
			}
		}
	}

	e.last, e.hasLast = c, true
	return c, events
}

// Fired reports the firing flags of a boundary instance, for diagnostics
func (e *Engine) Fired(key domain.TargetKey) (offsetFired, exactFired bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.flags[key]; ok {
		return f.offsetFired, f.exactFired
	}
	return false, false
}

// Tracked returns how many boundary instances hold firing state
func (e *Engine) Tracked() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.flags)
}

// advance makes key the current target, keeping only it and its predecessor.
// Caller holds e.mu.
func (e *Engine) advance(key domain.TargetKey) {
	if key == e.current {
		return
	}
	if e.current != (domain.TargetKey{}) {
		e.previous = e.current
	}
	e.current = key
	for k := range e.flags {
		if k != e.current && k != e.previous {
			delete(e.flags, k)
		}
	}
}

// Caller holds e.mu.
func (e *Engine) flagsFor(key domain.TargetKey) *firing {
	f, ok := e.flags[key]
	if !ok {
		f = &firing{}
		e.flags[key] = f
	}
	return f
}

// crossed reports whether at lies in (from, to]
func crossed(from, to, at time.Time) bool {
	return from.Before(at) && !to.Before(at)
}
