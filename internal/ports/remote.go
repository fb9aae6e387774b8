package ports

import (
	"context"

	"rozadaar/internal/domain"
)

// RemoteSource is the client side of the remote scope API
type RemoteSource interface {
	// FetchLocations returns the raw locations collection
	FetchLocations(ctx context.Context) ([]byte, error)

	// FetchNotes returns the raw notes collection
	FetchNotes(ctx context.Context) ([]byte, error)

	// PushLocations replaces the remote locations with the given set
	PushLocations(ctx context.Context, secret string, locations []domain.Location) error

	// PushNotes replaces the remote notes with the given set
	PushNotes(ctx context.Context, secret string, notes []domain.Note) error
}
