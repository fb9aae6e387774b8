package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"rozadaar/internal/application"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// EditResult contains the result of editing a location
type EditResult struct {
	Location   domain.Location
	Changed    bool
	Pushed     bool
	Violations []domain.Violation
	Message    string
}

// EditLocationCommand opens a location's cached document in an editor.
// While the editor is open, syncs leave that location untouched. An edit
// saved without a secret stays pending and syncs keep it until a push.
type EditLocationCommand struct {
	reconciler *reconcile.Reconciler
	catalog    *application.Catalog
	editor     ports.EditorOpener
	LocationID string
	Secret     string // empty saves locally without pushing
}

// NewEditLocationCommand creates a new EditLocationCommand
func NewEditLocationCommand(reconciler *reconcile.Reconciler, catalog *application.Catalog, editor ports.EditorOpener, locationID, secret string) *EditLocationCommand {
	return &EditLocationCommand{
		reconciler: reconciler,
		catalog:    catalog,
		editor:     editor,
		LocationID: locationID,
		Secret:     secret,
	}
}

// Execute runs the edit command
func (c *EditLocationCommand) Execute(ctx context.Context) (*EditResult, error) {
	if err := application.ValidateRequired("locationID", c.LocationID); err != nil {
		return nil, err
	}
	original, err := c.catalog.Location(c.LocationID)
	if err != nil {
		return nil, err
	}

	sessions := c.reconciler.Sessions()
	if err := sessions.Begin(c.LocationID); err != nil {
		return nil, err
	}
	defer sessions.End(c.LocationID)

	dir, err := os.MkdirTemp("", "rozadaar-edit-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, c.LocationID+".json")
	before, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}
	if err := os.WriteFile(path, before, 0600); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := c.editor.OpenFile(path); err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	var edited domain.Location
	if err := json.Unmarshal(after, &edited); err != nil {
		return nil, &application.PayloadError{Collection: "locations", Reason: err.Error()}
	}
	if edited.ID != original.ID {
		return nil, &application.ValidationError{Field: "locationID", Message: "location id cannot be changed while editing"}
	}

	result := &EditResult{
		Location:   edited,
		Violations: edited.Table().Validate(),
	}

	beforeJSON, _ := json.Marshal(original)
	afterJSON, _ := json.Marshal(edited)
	if string(beforeJSON) == string(afterJSON) {
		result.Location = original
		result.Message = "No changes"
		return result, nil
	}
	result.Changed = true

	locs := slices.Clone(c.catalog.Locations())
	for i := range locs {
		if locs[i].ID == edited.ID {
			locs[i] = edited
		}
	}

	if c.Secret == "" {
		if err := application.ValidateLocations(locs); err != nil {
			return nil, err
		}
		if err := c.catalog.SaveLocalEdit(ctx, locs, edited.ID); err != nil {
			return nil, err
		}
		result.Message = fmt.Sprintf("Saved %s locally; syncs keep it until pushed", edited.ID)
		return result, nil
	}

	if err := c.reconciler.PushLocations(ctx, c.Secret, locs); err != nil {
		return nil, err
	}
	result.Pushed = true
	result.Message = fmt.Sprintf("Saved and pushed %s", edited.ID)
	return result, nil
}
