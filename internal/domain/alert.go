package domain

import (
	"fmt"
	"time"
)

// AlertKind distinguishes pre-boundary alerts from boundary alerts
type AlertKind int

const (
	AlertOffset AlertKind = iota // N minutes before a boundary
	AlertExact                   // at the boundary
)

func (k AlertKind) String() string {
	switch k {
	case AlertOffset:
		return "offset"
	case AlertExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Alert sounds understood by dispatchers
const (
	SoundBeep  = "beep"
	SoundAlarm = "alarm"
)

// AlertTitle is the heading of every alert
const AlertTitle = "Ramadan Alert"

// AlertEvent is emitted by the countdown engine towards a dispatcher
type AlertEvent struct {
	Kind          AlertKind    `json:"-"`
	KindName      string       `json:"kind"`
	Boundary      BoundaryKind `json:"-"`
	BoundaryName  string       `json:"boundary"`
	Scope         string       `json:"scope"`
	Date          string       `json:"date"`
	Target        time.Time    `json:"target"`
	OffsetMinutes int          `json:"offsetMinutes,omitempty"`
	Title         string       `json:"title"`
	Message       string       `json:"message"`
	Sound         string       `json:"sound"`
	FiredAt       time.Time    `json:"firedAt"`
}

// Key returns the boundary instance the alert belongs to
func (e AlertEvent) Key() TargetKey {
	return TargetKey{Date: e.Date, Kind: e.Boundary}
}

// NewOffsetAlert builds the alert fired minutes before a boundary
func NewOffsetAlert(c Countdown, minutes int, firedAt time.Time) AlertEvent {
	return AlertEvent{
		Kind:          AlertOffset,
		KindName:      AlertOffset.String(),
		Boundary:      c.Boundary,
		BoundaryName:  c.Boundary.String(),
		Scope:         c.Scope,
		Date:          c.Record.Date,
		Target:        c.Target,
		OffsetMinutes: minutes,
		Title:         AlertTitle,
		Message:       offsetMessage(c.Boundary, minutes),
		Sound:         SoundBeep,
		FiredAt:       firedAt,
	}
}

// NewExactAlert builds the alert fired when a boundary is reached
func NewExactAlert(scope string, rec DayRecord, kind BoundaryKind, target, firedAt time.Time) AlertEvent {
	msg := "Iftar Time!"
	if kind == BoundaryStart {
		msg = "Sehri Time Ended!"
	}
	return AlertEvent{
		Kind:         AlertExact,
		KindName:     AlertExact.String(),
		Boundary:     kind,
		BoundaryName: kind.String(),
		Scope:        scope,
		Date:         rec.Date,
		Target:       target,
		Title:        AlertTitle,
		Message:      msg,
		Sound:        SoundAlarm,
		FiredAt:      firedAt,
	}
}

func offsetMessage(kind BoundaryKind, minutes int) string {
	switch {
	case kind == BoundaryStart && minutes == 60:
		return "1 Hour remaining for Sehri!"
	case kind == BoundaryEnd && minutes == 20:
		return "20 Minutes to Iftar."
	default:
		return fmt.Sprintf("%d minutes remaining for %s!", minutes, kind.Label())
	}
}
