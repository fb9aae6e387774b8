package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"rozadaar/internal/application"
	"rozadaar/internal/ports"
)

// ExportCommand writes a location's timetable as a calendar
type ExportCommand struct {
	catalog    *application.Catalog
	exporter   ports.CalendarExporter
	loc        *time.Location
	LocationID string // empty selects the configured location
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(catalog *application.Catalog, exporter ports.CalendarExporter, loc *time.Location, locationID string) *ExportCommand {
	return &ExportCommand{
		catalog:    catalog,
		exporter:   exporter,
		loc:        loc,
		LocationID: locationID,
	}
}

// Execute writes the calendar to w and returns the number of days exported.
// Malformed days are skipped by the exporter.
func (c *ExportCommand) Execute(ctx context.Context, w io.Writer) (int, error) {
	location := c.catalog.Selected()
	if c.LocationID != "" {
		l, err := c.catalog.Location(c.LocationID)
		if err != nil {
			return 0, err
		}
		location = l
	}

	n, err := c.exporter.Export(w, location, c.loc)
	if err != nil {
		return 0, fmt.Errorf("failed to export %s: %w", location.ID, err)
	}
	return n, nil
}
