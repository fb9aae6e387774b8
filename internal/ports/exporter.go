package ports

import (
	"io"
	"time"

	"rozadaar/internal/domain"
)

// CalendarExporter writes a location's timetable as a calendar document
type CalendarExporter interface {
	// Export writes one event per well-formed day of the timetable, with
	// boundaries interpreted in loc, and returns the number of events
	Export(w io.Writer, location domain.Location, loc *time.Location) (int, error)
}
