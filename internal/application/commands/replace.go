package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rozadaar/internal/application"
	"rozadaar/internal/ports"
)

// Collections served by the remote scope API
const (
	CollectionLocations = "locations"
	CollectionNotes     = "notes"
)

// KnownCollection reports whether name is a served collection
func KnownCollection(name string) bool {
	return name == CollectionLocations || name == CollectionNotes
}

// ReplaceResult contains the result of replacing a collection
type ReplaceResult struct {
	Collection string
	Deleted    int
	Upserted   int
	Message    string
}

// ReplaceCollectionCommand makes a stored collection equal to a submitted
// set: ids absent from the set are deleted, the rest are upserted, all in
// one transaction
type ReplaceCollectionCommand struct {
	store      ports.RecordStore
	Collection string
	Data       json.RawMessage
}

// NewReplaceCollectionCommand creates a new ReplaceCollectionCommand
func NewReplaceCollectionCommand(store ports.RecordStore, collection string, data json.RawMessage) *ReplaceCollectionCommand {
	return &ReplaceCollectionCommand{
		store:      store,
		Collection: collection,
		Data:       data,
	}
}

// Records parses the submitted set into identified records. Every element
// must be an object with a non-empty string or numeric id.
func (c *ReplaceCollectionCommand) Records() ([]ports.Record, error) {
	trimmed := bytes.TrimSpace(c.Data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &application.PayloadError{Collection: c.Collection, Reason: "data must be an array"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &application.PayloadError{Collection: c.Collection, Reason: err.Error()}
	}

	records := make([]ports.Record, 0, len(elems))
	for i, raw := range elems {
		var head struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, &application.PayloadError{Collection: c.Collection, Reason: fmt.Sprintf("element %d is not an object", i)}
		}
		id := recordID(head.ID)
		if id == "" {
			return nil, &application.PayloadError{Collection: c.Collection, Reason: fmt.Sprintf("element %d has no id", i)}
		}
		records = append(records, ports.Record{ID: id, Body: raw})
	}
	return records, nil
}

// Validate checks the command before touching the store
func (c *ReplaceCollectionCommand) Validate() error {
	if !KnownCollection(c.Collection) {
		return fmt.Errorf("collection %q: %w", c.Collection, application.ErrNotFound)
	}
	_, err := c.Records()
	return err
}

// Execute runs the replace command
func (c *ReplaceCollectionCommand) Execute(ctx context.Context) (*ReplaceResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	records, _ := c.Records()

	tx, err := c.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.IDs(c.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.Collection, err)
	}

	submitted := make(map[string]bool, len(records))
	for _, r := range records {
		submitted[r.ID] = true
	}

	deleted := 0
	for _, id := range existing {
		if submitted[id] {
			continue
		}
		if err := tx.Delete(c.Collection, id); err != nil {
			return nil, fmt.Errorf("failed to delete %s/%s: %w", c.Collection, id, err)
		}
		deleted++
	}

	for i, r := range records {
		if err := tx.Upsert(c.Collection, i, r); err != nil {
			return nil, fmt.Errorf("failed to save %s/%s: %w", c.Collection, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", c.Collection, err)
	}

	return &ReplaceResult{
		Collection: c.Collection,
		Deleted:    deleted,
		Upserted:   len(records),
		Message:    fmt.Sprintf("%s synced successfully", strings.ToUpper(c.Collection[:1])+c.Collection[1:]),
	}, nil
}

// recordID accepts string and numeric ids
func recordID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// ListCollectionCommand returns a stored collection as a JSON array
type ListCollectionCommand struct {
	store      ports.RecordStore
	Collection string
}

// NewListCollectionCommand creates a new ListCollectionCommand
func NewListCollectionCommand(store ports.RecordStore, collection string) *ListCollectionCommand {
	return &ListCollectionCommand{store: store, Collection: collection}
}

// Execute runs the list command
func (c *ListCollectionCommand) Execute(ctx context.Context) (json.RawMessage, error) {
	if !KnownCollection(c.Collection) {
		return nil, fmt.Errorf("collection %q: %w", c.Collection, application.ErrNotFound)
	}
	records, err := c.store.List(ctx, c.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.Collection, err)
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r.Body)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
