package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format used by every DayRecord
	DateLayout = "2006-01-02"
	// ClockLayout is the 24h time-of-day format of the Sehri and Iftar fields
	ClockLayout = "15:04"
)

// BoundaryKind identifies one of the two daily boundaries
type BoundaryKind int

const (
	BoundaryStart BoundaryKind = iota // Sehri, the fast begins
	BoundaryEnd                       // Iftar, the fast ends
)

// String returns the lowercase wire name of the boundary
func (k BoundaryKind) String() string {
	switch k {
	case BoundaryStart:
		return "sehri"
	case BoundaryEnd:
		return "iftar"
	default:
		return "unknown"
	}
}

// Label returns the display name of the boundary
func (k BoundaryKind) Label() string {
	switch k {
	case BoundaryStart:
		return "Sehri"
	case BoundaryEnd:
		return "Iftar"
	default:
		return "Unknown"
	}
}

// DayRecord is one row of a location's timetable
type DayRecord struct {
	ID        int    `json:"id"`         // Ordinal, 1-based
	Date      string `json:"date"`       // e.g., "2026-02-18"
	DayEn     string `json:"day_en"`     // e.g., "Wednesday"
	DayUr     string `json:"day_ur"`     // Urdu weekday label
	Sehri     string `json:"sehri"`      // e.g., "05:24"
	Iftar     string `json:"iftar"`      // e.g., "17:51"
	HijriDate int    `json:"hijri_date"` // Day of Ramadan
}

// Clock returns the raw time-of-day string for a boundary
func (r DayRecord) Clock(kind BoundaryKind) string {
	if kind == BoundaryEnd {
		return r.Iftar
	}
	return r.Sehri
}

// Day returns midnight of the record's date in loc
func (r DayRecord) Day(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, r.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("record %d: invalid date %q", r.ID, r.Date)
	}
	return d, nil
}

// Boundary returns the absolute instant of a boundary on the record's date
func (r DayRecord) Boundary(kind BoundaryKind, loc *time.Location) (time.Time, error) {
	day, err := r.Day(loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseClock(r.Clock(kind))
	if err != nil {
		return time.Time{}, fmt.Errorf("record %d %s: %w", r.ID, kind, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// Window returns both boundaries. ok is false for malformed records,
// including windows where Sehri is not before Iftar.
func (r DayRecord) Window(loc *time.Location) (start, end time.Time, ok bool) {
	start, err := r.Boundary(BoundaryStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = r.Boundary(BoundaryEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ParseClock parses an "HH:MM" time of day
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour(), t.Minute(), nil
}
