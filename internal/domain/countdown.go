package domain

import (
	"fmt"
	"time"
)

// HighlightWindow is how long after a boundary the countdown stays highlighted
const HighlightWindow = 5 * time.Minute

// State is the countdown state derived from corrected time and a table
type State int

const (
	StateBeforeStart    State = iota // today's Sehri is still ahead
	StateBeforeEnd                   // between today's Sehri and Iftar
	StateExhaustedToday              // today is over or has no usable record
	StateComplete                    // no future record exists
)

func (s State) String() string {
	switch s {
	case StateBeforeStart:
		return "before_start"
	case StateBeforeEnd:
		return "before_end"
	case StateExhaustedToday:
		return "exhausted_today"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Phase names what the countdown is approaching
type Phase int

const (
	PhaseApproachingStart Phase = iota
	PhaseApproachingEnd
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseApproachingStart:
		return "approaching start"
	case PhaseApproachingEnd:
		return "approaching end"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CompletedLabel is shown once the timetable is exhausted
const CompletedLabel = "Ramadan Completed"

// TargetKey identifies a boundary instance
type TargetKey struct {
	Date string
	Kind BoundaryKind
}

func (k TargetKey) String() string {
	return k.Date + "/" + k.Kind.String()
}

// Countdown is the result of evaluating one tick
type Countdown struct {
	State     State
	Phase     Phase
	Scope     string
	Record    DayRecord // target record, zero when complete
	Boundary  BoundaryKind
	Target    time.Time
	Now       time.Time
	Remaining time.Duration // floored to whole seconds, never negative
	Highlight bool          // within HighlightWindow after one of today's boundaries
	Label     string
}

// Complete reports whether the timetable is exhausted
func (c Countdown) Complete() bool {
	return c.State == StateComplete
}

// Key returns the identity of the current target
func (c Countdown) Key() (TargetKey, bool) {
	if c.Complete() {
		return TargetKey{}, false
	}
	return TargetKey{Date: c.Record.Date, Kind: c.Boundary}, true
}

// Clock renders the remaining time as HH:MM:SS
func (c Countdown) Clock() string {
	return FormatRemaining(c.Remaining)
}

// Evaluate derives the countdown from scratch. It holds no state so that a
// tick after an arbitrary suspension is as correct as any other tick.
func Evaluate(now time.Time, table *BoundaryTable, loc *time.Location) Countdown {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	scope := ""
	if table != nil {
		scope = table.Scope
	}

	highlight := false
	if today, ok := table.FindByDate(now.Format(DateLayout)); ok {
		if start, end, ok := today.Window(loc); ok {
			highlight = within(now, start, HighlightWindow) || within(now, end, HighlightWindow)

			switch {
			case now.Before(start):
				return newCountdown(StateBeforeStart, PhaseApproachingStart, scope, today, BoundaryStart, start, now, highlight,
					BoundaryStart.Label())
			case now.Before(end):
				return newCountdown(StateBeforeEnd, PhaseApproachingEnd, scope, today, BoundaryEnd, end, now, highlight,
					BoundaryEnd.Label())
			}
		}
	}

	next, ok := table.FindNextFrom(now, loc)
	if !ok {
		return Countdown{
			State:     StateComplete,
			Phase:     PhaseCompleted,
			Scope:     scope,
			Now:       now,
			Highlight: highlight,
			Label:     CompletedLabel,
		}
	}

	start, _, _ := next.Window(loc)
	return newCountdown(StateExhaustedToday, PhaseApproachingStart, scope, next, BoundaryStart, start, now, highlight,
		fmt.Sprintf("%s (%s)", BoundaryStart.Label(), next.Date))
}

func newCountdown(state State, phase Phase, scope string, rec DayRecord, kind BoundaryKind, target, now time.Time, highlight bool, label string) Countdown {
	remaining := target.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Countdown{
		State:     state,
		Phase:     phase,
		Scope:     scope,
		Record:    rec,
		Boundary:  kind,
		Target:    target,
		Now:       now,
		Remaining: remaining.Truncate(time.Second),
		Highlight: highlight,
		Label:     label,
	}
}

func within(now, at time.Time, d time.Duration) bool {
	return !now.Before(at) && now.Before(at.Add(d))
}

// FormatRemaining renders a duration as HH:MM:SS. Hours are not wrapped at 24.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
