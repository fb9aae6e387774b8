package application

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"rozadaar/internal/domain"
)

// Catalog is the in-memory view of the local state. Readers get immutable
// snapshots; writers persist first and publish whole new values after.
type Catalog struct {
	state     *LocalState
	locations *Snapshot[[]domain.Location]
	notes     *Snapshot[[]domain.Note]
	settings  *Snapshot[domain.Settings]

	writeMu    sync.Mutex // serializes cache writes and refreshes
	settingsMu sync.Mutex // serializes read-modify-write of settings
}

// LoadCatalog reads every entry from the local state, substituting defaults
func LoadCatalog(ctx context.Context, state *LocalState) *Catalog {
	return &Catalog{
		state:     state,
		locations: NewSnapshot(state.Locations(ctx)),
		notes:     NewSnapshot(state.Notes(ctx)),
		settings:  NewSnapshot(state.Settings(ctx)),
	}
}

// State returns the underlying persisted state
func (c *Catalog) State() *LocalState {
	return c.state
}

// Locations returns the current locations. Callers must not modify the slice.
func (c *Catalog) Locations() []domain.Location {
	return c.locations.Load()
}

// Notes returns the current notes. Callers must not modify the slice.
func (c *Catalog) Notes() []domain.Note {
	return c.notes.Load()
}

// Settings returns the current preferences
func (c *Catalog) Settings() domain.Settings {
	return c.settings.Load()
}

// Selected returns the location chosen in the settings, falling back to
// the first one when the selection no longer exists
func (c *Catalog) Selected() domain.Location {
	loc, _ := domain.FindLocation(c.Locations(), c.Settings().SelectedLocationID)
	return loc
}

// Table returns the boundary table of the selected location
func (c *Catalog) Table() *domain.BoundaryTable {
	return c.Selected().Table()
}

// Location returns a location by id
func (c *Catalog) Location(id string) (domain.Location, error) {
	for _, l := range c.Locations() {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Location{}, fmt.Errorf("location %q: %w", id, ErrNotFound)
}

// Refresh re-reads locations and notes from the store, picking up writes
// made by other processes sharing it
func (c *Catalog) Refresh(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.locations.Store(c.state.Locations(ctx))
	c.notes.Store(c.state.Notes(ctx))
}

// PendingEdits returns the ids of locations saved locally without a push.
// It reads the store on every call.
func (c *Catalog) PendingEdits(ctx context.Context) []string {
	return c.state.PendingEdits(ctx)
}

// SaveLocalEdit stores an edited location and marks it pending, so syncs
// keep the local value until it is pushed
func (c *Catalog) SaveLocalEdit(ctx context.Context, locs []domain.Location, id string) error {
	if err := c.ReplaceLocations(ctx, locs); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	pending := c.state.PendingEdits(ctx)
	if slices.Contains(pending, id) {
		return nil
	}
	return c.state.SavePendingEdits(ctx, append(pending, id))
}

// ClearPendingEdits forgets every pending local edit
func (c *Catalog) ClearPendingEdits(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if len(c.state.PendingEdits(ctx)) == 0 {
		return nil
	}
	return c.state.SavePendingEdits(ctx, nil)
}

// ReplaceLocations persists and publishes a new set of locations
func (c *Catalog) ReplaceLocations(ctx context.Context, locs []domain.Location) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	locs = slices.Clone(locs)
	if err := c.state.SaveLocations(ctx, locs); err != nil {
		return err
	}
	c.locations.Store(locs)
	return nil
}

// ReplaceNotes persists and publishes a new set of notes
func (c *Catalog) ReplaceNotes(ctx context.Context, notes []domain.Note) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	notes = slices.Clone(notes)
	if notes == nil {
		notes = []domain.Note{}
	}
	if err := c.state.SaveNotes(ctx, notes); err != nil {
		return err
	}
	c.notes.Store(notes)
	return nil
}

// UpdateSettings applies fn to a copy of the settings, then persists and publishes it
func (c *Catalog) UpdateSettings(ctx context.Context, fn func(*domain.Settings) error) (domain.Settings, error) {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()

	next := c.Settings()
	if err := fn(&next); err != nil {
		return c.Settings(), err
	}
	if err := c.state.SaveSettings(ctx, next); err != nil {
		return c.Settings(), err
	}
	c.settings.Store(next)
	return next, nil
}

// MarkSynced records the moment the cache last changed from a sync
func (c *Catalog) MarkSynced(ctx context.Context, at time.Time) error {
	_, err := c.UpdateSettings(ctx, func(s *domain.Settings) error {
		s.LastSyncTime = at.UTC().Format(time.RFC3339)
		return nil
	})
	return err
}
