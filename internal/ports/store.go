package ports

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by stores when a key or record does not exist
var ErrNotFound = errors.New("not found")

// StateStore persists the device's local state as independent key/value entries
type StateStore interface {
	// Get returns the stored value, or ErrNotFound when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the value, replacing any previous one
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Record is one entry of a remote collection, keyed by its stable identifier
type Record struct {
	ID   string
	Body json.RawMessage
}

// RecordStore is the persistent store behind the remote scope API
type RecordStore interface {
	// List returns every record of the collection in submission order
	List(ctx context.Context, collection string) ([]Record, error)

	// BeginTx starts an atomic batch of changes
	BeginTx(ctx context.Context) (RecordTx, error)
}

// RecordTx is an atomic batch of record changes
type RecordTx interface {
	// IDs returns the identifiers currently stored in the collection
	IDs(collection string) ([]string, error)

	// Upsert inserts or replaces a record at the given position
	Upsert(collection string, position int, rec Record) error

	// Delete removes a record by identifier
	Delete(collection, id string) error

	// Transaction control
	Commit() error
	Rollback() error
}

// SecretStore persists the admin secret outside the state database
type SecretStore interface {
	// Secret returns the saved secret, or "" when none is saved
	Secret() (string, error)
	SaveSecret(secret string) error
	ClearSecret() error
}
