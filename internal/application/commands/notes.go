package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"rozadaar/internal/application"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
)

// NewNoteID returns a fresh note identifier
func NewNoteID() string {
	return "note_" + uuid.NewString()
}

// AddNoteResult contains the result of adding a note
type AddNoteResult struct {
	Note    domain.Note
	Message string
}

// AddNoteCommand publishes a new note to the remote source
type AddNoteCommand struct {
	reconciler *reconcile.Reconciler
	catalog    *application.Catalog
	Secret     string
	Note       domain.Note
}

// NewAddNoteCommand creates a new AddNoteCommand. An empty LocationID makes the note global.
func NewAddNoteCommand(reconciler *reconcile.Reconciler, catalog *application.Catalog, secret string, text domain.LocalizedText, locationID, noteType string) *AddNoteCommand {
	if noteType == "" {
		noteType = domain.NoteTypeNote
	}
	return &AddNoteCommand{
		reconciler: reconciler,
		catalog:    catalog,
		Secret:     secret,
		Note: domain.Note{
			ID:         NewNoteID(),
			Text:       text,
			IsGlobal:   locationID == "",
			LocationID: locationID,
			Type:       noteType,
		},
	}
}

// Validate checks if the note can be added
func (c *AddNoteCommand) Validate() error {
	if err := application.ValidateRequired("secret", c.Secret); err != nil {
		return err
	}
	if c.Note.Text.En == "" && c.Note.Text.Ur == "" {
		return &application.ValidationError{Field: "text", Message: "note text is required"}
	}
	if c.Note.Type != domain.NoteTypeNote && c.Note.Type != domain.NoteTypeGuide {
		return &application.ValidationError{Field: "type", Message: "type must be note or guide"}
	}
	if !c.Note.IsGlobal {
		if _, err := c.catalog.Location(c.Note.LocationID); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the add note command
func (c *AddNoteCommand) Execute(ctx context.Context) (*AddNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sessions := c.reconciler.Sessions()
	if err := sessions.Begin(reconcile.NotesScope); err != nil {
		return nil, err
	}
	defer sessions.End(reconcile.NotesScope)

	notes := append(slices.Clone(c.catalog.Notes()), c.Note)
	if err := c.reconciler.PushNotes(ctx, c.Secret, notes); err != nil {
		return nil, fmt.Errorf("failed to publish note: %w", err)
	}

	return &AddNoteResult{
		Note:    c.Note,
		Message: fmt.Sprintf("Added %s %s", c.Note.Type, c.Note.ID),
	}, nil
}

// DeleteNoteCommand removes a note from the remote source
type DeleteNoteCommand struct {
	reconciler *reconcile.Reconciler
	catalog    *application.Catalog
	Secret     string
	NoteID     string
}

// NewDeleteNoteCommand creates a new DeleteNoteCommand
func NewDeleteNoteCommand(reconciler *reconcile.Reconciler, catalog *application.Catalog, secret, noteID string) *DeleteNoteCommand {
	return &DeleteNoteCommand{
		reconciler: reconciler,
		catalog:    catalog,
		Secret:     secret,
		NoteID:     noteID,
	}
}

// Execute runs the delete note command
func (c *DeleteNoteCommand) Execute(ctx context.Context) error {
	if err := application.ValidateRequired("secret", c.Secret); err != nil {
		return err
	}
	if err := application.ValidateRequired("noteID", c.NoteID); err != nil {
		return err
	}

	sessions := c.reconciler.Sessions()
	if err := sessions.Begin(reconcile.NotesScope); err != nil {
		return err
	}
	defer sessions.End(reconcile.NotesScope)

	current := c.catalog.Notes()
	notes := slices.DeleteFunc(slices.Clone(current), func(n domain.Note) bool { return n.ID == c.NoteID })
	if len(notes) == len(current) {
		return fmt.Errorf("note %q: %w", c.NoteID, application.ErrNotFound)
	}

	if err := c.reconciler.PushNotes(ctx, c.Secret, notes); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
