package commands

import (
	"context"
	"sort"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
)

// ValidateResult lists timetable problems per location
type ValidateResult struct {
	Checked    int
	Violations map[string][]domain.Violation
}

// OK reports whether no violation was found
func (r *ValidateResult) OK() bool {
	return len(r.Violations) == 0
}

// LocationIDs returns the ids of locations with violations, sorted
func (r *ValidateResult) LocationIDs() []string {
	ids := make([]string, 0, len(r.Violations))
	for id := range r.Violations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateCommand checks cached timetables for invariant violations
type ValidateCommand struct {
	catalog    *application.Catalog
	LocationID string // empty checks every location
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(catalog *application.Catalog, locationID string) *ValidateCommand {
	return &ValidateCommand{catalog: catalog, LocationID: locationID}
}

// Execute runs the validate command
func (c *ValidateCommand) Execute(ctx context.Context) (*ValidateResult, error) {
	locs := c.catalog.Locations()
	if c.LocationID != "" {
		l, err := c.catalog.Location(c.LocationID)
		if err != nil {
			return nil, err
		}
		locs = []domain.Location{l}
	}

	return &ValidateResult{
		Checked:    len(locs),
		Violations: application.TableViolations(locs),
	}, nil
}
