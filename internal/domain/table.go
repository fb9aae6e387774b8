package domain

import (
	"fmt"
	"time"
)

// BoundaryTable is the ordered timetable of a single scope.
// A published table is never mutated; producers build a new one instead.
type BoundaryTable struct {
	Scope   string
	Records []DayRecord
}

// NewBoundaryTable copies records into a new table
func NewBoundaryTable(scope string, records []DayRecord) *BoundaryTable {
	return &BoundaryTable{
		Scope:   scope,
		Records: append([]DayRecord(nil), records...),
	}
}

// Len returns the number of records
func (t *BoundaryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// FindByDate returns the first record for a calendar date
func (t *BoundaryTable) FindByDate(date string) (DayRecord, bool) {
	if t == nil {
		return DayRecord{}, false
	}
	for _, r := range t.Records {
		if r.Date == date {
			return r, true
		}
	}
	return DayRecord{}, false
}

// FindNextFrom returns the first well-formed record, in ordinal order, whose
// date is strictly after the date portion of instant in loc.
func (t *BoundaryTable) FindNextFrom(instant time.Time, loc *time.Location) (DayRecord, bool) {
	if t == nil {
		return DayRecord{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	local := instant.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	for _, r := range t.Records {
		day, err := r.Day(loc)
		if err != nil {
			continue
		}
		if !day.After(today) {
			continue
		}
		if _, _, ok := r.Window(loc); !ok {
			continue
		}
		return r, true
	}
	return DayRecord{}, false
}

// ViolationKind classifies a timetable data-quality problem
type ViolationKind string

const (
	ViolationBadDate       ViolationKind = "bad_date"
	ViolationBadTime       ViolationKind = "bad_time"
	ViolationWindow        ViolationKind = "window"
	ViolationGap           ViolationKind = "gap"
	ViolationDuplicate     ViolationKind = "duplicate"
	ViolationOrdinal       ViolationKind = "ordinal"
	ViolationNonPositiveID ViolationKind = "non_positive_id"
)

// Violation describes one broken invariant in a table
type Violation struct {
	Kind     ViolationKind
	RecordID int
	Date     string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("record %d (%s): %s: %s", v.RecordID, v.Date, v.Kind, v.Detail)
}

// Validate reports every invariant violation in the table. Nothing is
// repaired; readers of a table with violations skip the affected records.
func (t *BoundaryTable) Validate() []Violation {
	if t == nil {
		return nil
	}

	var out []Violation
	seenDates := make(map[string]bool)
	var prev *DayRecord
	var prevDay time.Time

	for i := range t.Records {
		r := t.Records[i]

		if r.ID <= 0 {
			out = append(out, Violation{ViolationNonPositiveID, r.ID, r.Date, "ordinal must be positive"})
		}

		day, err := r.Day(time.UTC)
		if err != nil {
			out = append(out, Violation{ViolationBadDate, r.ID, r.Date, err.Error()})
			prev = nil
			continue
		}

		if seenDates[r.Date] {
			out = append(out, Violation{ViolationDuplicate, r.ID, r.Date, "date appears more than once"})
		}
		seenDates[r.Date] = true

		_, _, errStart := ParseClock(r.Sehri)
		_, _, errEnd := ParseClock(r.Iftar)
		switch {
		case errStart != nil:
			out = append(out, Violation{ViolationBadTime, r.ID, r.Date, errStart.Error()})
		case errEnd != nil:
			out = append(out, Violation{ViolationBadTime, r.ID, r.Date, errEnd.Error()})
		default:
			if _, _, ok := r.Window(time.UTC); !ok {
				out = append(out, Violation{ViolationWindow, r.ID, r.Date,
					fmt.Sprintf("sehri %s is not before iftar %s", r.Sehri, r.Iftar)})
			}
		}

		if prev != nil {
			if r.ID != prev.ID+1 {
				out = append(out, Violation{ViolationOrdinal, r.ID, r.Date,
					fmt.Sprintf("expected ordinal %d after %d", prev.ID+1, prev.ID)})
			}
			if want := prevDay.AddDate(0, 0, 1); !day.Equal(want) && r.Date != prev.Date {
				out = append(out, Violation{ViolationGap, r.ID, r.Date,
					fmt.Sprintf("expected %s after %s", want.Format(DateLayout), prev.Date)})
			}
		}

		prev = &t.Records[i]
		prevDay = day
	}

	return out
}
