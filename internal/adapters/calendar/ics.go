// Package calendar exports a location's timetable as an iCalendar document
package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

const productID = "-//rozadaar//Fasting Timetable//EN"

// Exporter writes one VEVENT per fasting day, from Sehri to Iftar
type Exporter struct {
	now func() time.Time
}

// Ensure Exporter implements ports.CalendarExporter
var _ ports.CalendarExporter = (*Exporter)(nil)

// NewExporter creates an exporter stamping events with the current time
func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// EventUID is stable for a scope and date, so re-importing an export
// updates events instead of duplicating them
func EventUID(scope, date string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("rozadaar:"+scope+"/"+date)).String()
}

// Export writes the calendar. Malformed days are skipped.
func (e *Exporter) Export(w io.Writer, location domain.Location, loc *time.Location) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText("X-WR-CALNAME", "Ramadan "+location.NameEn)

	stamp := e.now().UTC()
	count := 0
	for _, rec := range location.Timings {
		start, end, ok := rec.Window(loc)
		if !ok {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(location.ID, rec.Date))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
		event.Props.SetText(ical.PropSummary, summary(rec))
		event.Props.SetText(ical.PropDescription, fmt.Sprintf("Sehri %s, Iftar %s",
			domain.FormatTo12h(rec.Sehri), domain.FormatTo12h(rec.Iftar)))
		if location.NameEn != "" {
			event.Props.SetText(ical.PropLocation, location.NameEn)
		}
		cal.Children = append(cal.Children, event.Component)
		count++
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("encoding calendar: %w", err)
	}
	return count, nil
}

func summary(rec domain.DayRecord) string {
	if rec.HijriDate > 0 {
		return fmt.Sprintf("Roza %d (%s)", rec.HijriDate, domain.AshraOf(rec.HijriDate))
	}
	return "Roza"
}
