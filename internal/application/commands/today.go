package commands

import (
	"context"
	"time"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// TodayResult contains everything shown for the current day
type TodayResult struct {
	Location  domain.Location
	Record    domain.DayRecord
	HasRecord bool
	Ashra     domain.Ashra
	Countdown domain.Countdown
	Notes     []domain.Note
	Verified  bool
}

// TodayCommand resolves the current day for a location
type TodayCommand struct {
	catalog    *application.Catalog
	clock      ports.Clock
	loc        *time.Location
	LocationID string // empty selects the configured location
}

// NewTodayCommand creates a new TodayCommand
func NewTodayCommand(catalog *application.Catalog, clock ports.Clock, loc *time.Location, locationID string) *TodayCommand {
	return &TodayCommand{
		catalog:    catalog,
		clock:      clock,
		loc:        loc,
		LocationID: locationID,
	}
}

// Execute runs the today command
func (c *TodayCommand) Execute(ctx context.Context) (*TodayResult, error) {
	location := c.catalog.Selected()
	if c.LocationID != "" {
		l, err := c.catalog.Location(c.LocationID)
		if err != nil {
			return nil, err
		}
		location = l
	}

	now := c.clock.Now().In(c.loc)
	table := location.Table()
	rec, ok := table.FindByDate(now.Format(domain.DateLayout))

	result := &TodayResult{
		Location:  location,
		Record:    rec,
		HasRecord: ok,
		Countdown: domain.Evaluate(now, table, c.loc),
		Notes:     domain.VisibleNotes(c.catalog.Notes(), location.ID),
	}
	if ok {
		result.Ashra = domain.AshraOf(rec.HijriDate)
	}
	if v, isVerifier := c.clock.(interface{ Verified() bool }); isVerifier {
		result.Verified = v.Verified()
	}
	return result, nil
}

// TimingRow is one line of a timetable listing
type TimingRow struct {
	Record  domain.DayRecord
	Ashra   domain.Ashra
	IsToday bool
}

// TimingsCommand lists a location's timetable
type TimingsCommand struct {
	catalog    *application.Catalog
	clock      ports.Clock
	loc        *time.Location
	LocationID string
}

// NewTimingsCommand creates a new TimingsCommand
func NewTimingsCommand(catalog *application.Catalog, clock ports.Clock, loc *time.Location, locationID string) *TimingsCommand {
	return &TimingsCommand{
		catalog:    catalog,
		clock:      clock,
		loc:        loc,
		LocationID: locationID,
	}
}

// Execute runs the timings command
func (c *TimingsCommand) Execute(ctx context.Context) (domain.Location, []TimingRow, error) {
	location := c.catalog.Selected()
	if c.LocationID != "" {
		l, err := c.catalog.Location(c.LocationID)
		if err != nil {
			return domain.Location{}, nil, err
		}
		location = l
	}

	today := c.clock.Now().In(c.loc).Format(domain.DateLayout)
	rows := make([]TimingRow, 0, len(location.Timings))
	for _, r := range location.Timings {
		rows = append(rows, TimingRow{
			Record:  r,
			Ashra:   domain.AshraOf(r.HijriDate),
			IsToday: r.Date == today,
		})
	}
	return location, rows, nil
}
