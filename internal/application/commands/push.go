package commands

import (
	"context"
	"fmt"

	"rozadaar/internal/application"
	"rozadaar/internal/application/reconcile"
)

// PushResult contains the result of a push
type PushResult struct {
	Collection string
	Count      int
	Message    string
}

// PushCommand sends a complete collection to the remote source, replacing
// what it holds. Without Data the cached collection is sent.
type PushCommand struct {
	reconciler *reconcile.Reconciler
	catalog    *application.Catalog
	Secret     string
	Collection string
	Data       []byte
}

// NewPushCommand creates a new PushCommand
func NewPushCommand(reconciler *reconcile.Reconciler, catalog *application.Catalog, secret, collection string, data []byte) *PushCommand {
	return &PushCommand{
		reconciler: reconciler,
		catalog:    catalog,
		Secret:     secret,
		Collection: collection,
		Data:       data,
	}
}

// Validate checks the push before any network traffic
func (c *PushCommand) Validate() error {
	if err := application.ValidateRequired("secret", c.Secret); err != nil {
		return err
	}
	if !KnownCollection(c.Collection) {
		return &application.ValidationError{
			Field:   "collection",
			Message: fmt.Sprintf("unknown collection %q (want %s or %s)", c.Collection, CollectionLocations, CollectionNotes),
		}
	}
	return nil
}

// Execute runs the push command
func (c *PushCommand) Execute(ctx context.Context) (*PushResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Collection {
	case CollectionLocations:
		locs := c.catalog.Locations()
		if c.Data != nil {
			decoded, err := application.DecodeLocations(c.Data)
			if err != nil {
				return nil, err
			}
			locs = decoded
		}
		if err := c.reconciler.PushLocations(ctx, c.Secret, locs); err != nil {
			return nil, err
		}
		return &PushResult{Collection: c.Collection, Count: len(locs), Message: fmt.Sprintf("Pushed %d locations", len(locs))}, nil

	default:
		notes := c.catalog.Notes()
		if c.Data != nil {
			decoded, err := application.DecodeNotes(c.Data)
			if err != nil {
				return nil, err
			}
			notes = decoded
		}
		if err := c.reconciler.PushNotes(ctx, c.Secret, notes); err != nil {
			return nil, err
		}
		return &PushResult{Collection: c.Collection, Count: len(notes), Message: fmt.Sprintf("Pushed %d notes", len(notes))}, nil
	}
}
