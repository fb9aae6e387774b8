// Package memory provides in-process stores, used by tests and by
// binaries started without a data directory.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"rozadaar/internal/ports"
)

// StateStore implements ports.StateStore over a map
type StateStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// Ensure StateStore implements ports.StateStore
var _ ports.StateStore = (*StateStore)(nil)

// NewStateStore creates an empty store
func NewStateStore() *StateStore {
	return &StateStore{values: make(map[string][]byte)}
}

func (s *StateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *StateStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = slices.Clone(value)
	return nil
}

func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// RecordStore implements ports.RecordStore. Transactions are serialized and
// work on a private copy that replaces the live data on commit.
type RecordStore struct {
	mu          sync.Mutex // held by an open transaction
	dataMu      sync.RWMutex
	collections map[string][]ports.Record
}

// Ensure RecordStore implements ports.RecordStore
var _ ports.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates an empty record store
func NewRecordStore() *RecordStore {
	return &RecordStore{collections: make(map[string][]ports.Record)}
}

func (s *RecordStore) List(_ context.Context, collection string) ([]ports.Record, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return cloneRecords(s.collections[collection]), nil
}

func (s *RecordStore) BeginTx(ctx context.Context) (ports.RecordTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()

	s.dataMu.RLock()
	work := make(map[string][]ports.Record, len(s.collections))
	for name, recs := range s.collections {
		work[name] = cloneRecords(recs)
	}
	s.dataMu.RUnlock()

	return &recordTx{store: s, work: work}, nil
}

type recordTx struct {
	store *RecordStore
	work  map[string][]ports.Record
	done  bool
}

func (t *recordTx) IDs(collection string) ([]string, error) {
	if t.done {
		return nil, errTxDone
	}
	recs := t.work[collection]
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids, nil
}

func (t *recordTx) Upsert(collection string, position int, rec ports.Record) error {
	if t.done {
		return errTxDone
	}
	recs := slices.DeleteFunc(t.work[collection], func(r ports.Record) bool { return r.ID == rec.ID })
	rec.Body = slices.Clone(rec.Body)
	if position < 0 || position > len(recs) {
		position = len(recs)
	}
	t.work[collection] = slices.Insert(recs, position, rec)
	return nil
}

func (t *recordTx) Delete(collection, id string) error {
	if t.done {
		return errTxDone
	}
	t.work[collection] = slices.DeleteFunc(t.work[collection], func(r ports.Record) bool { return r.ID == id })
	return nil
}

func (t *recordTx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.dataMu.Lock()
	t.store.collections = t.work
	t.store.dataMu.Unlock()
	t.store.mu.Unlock()
	return nil
}

func (t *recordTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

var errTxDone = errors.New("transaction already finished")

func cloneRecords(recs []ports.Record) []ports.Record {
	out := make([]ports.Record, len(recs))
	for i, r := range recs {
		out[i] = ports.Record{ID: r.ID, Body: slices.Clone(r.Body)}
	}
	return out
}
