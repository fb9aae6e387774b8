package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// Keys of the persisted local state
const (
	KeyTimeOffset   = "time_offset_ms"
	KeyLocations    = "locations_v1"
	KeyNotes        = "notes_v1"
	KeySettings     = "settings_v5"
	KeyPendingEdits = "pending_edits_v1"
	KeyVisitorID    = "visitor_id"
)

// LocalState gives typed access to the device's persisted entries. Every
// reader tolerates an absent or corrupt entry by returning the compiled-in
// default; corruption is logged, never returned.
type LocalState struct {
	store ports.StateStore
	log   logger.Logger
}

// NewLocalState wraps a key/value store
func NewLocalState(store ports.StateStore, log logger.Logger) *LocalState {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LocalState{store: store, log: log}
}

// Offset returns the stored clock offset. ok is false when none was ever stored.
func (s *LocalState) Offset(ctx context.Context) (offsetMs int64, ok bool) {
	raw, err := s.store.Get(ctx, KeyTimeOffset)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.log.Warning("reading %s: %v", KeyTimeOffset, err)
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		s.log.Warning("discarding corrupt %s %q", KeyTimeOffset, raw)
		return 0, false
	}
	return int64(v), true
}

// SaveOffset persists the clock offset
func (s *LocalState) SaveOffset(ctx context.Context, offsetMs int64) error {
	return s.store.Put(ctx, KeyTimeOffset, []byte(strconv.FormatInt(offsetMs, 10)))
}

// Locations returns the cached locations, or the compiled-in defaults
func (s *LocalState) Locations(ctx context.Context) []domain.Location {
	raw, ok := s.read(ctx, KeyLocations)
	if !ok {
		return domain.DefaultLocations()
	}
	locs, err := DecodeLocations(raw)
	if err != nil {
		s.log.Warning("discarding corrupt %s: %v", KeyLocations, err)
		return domain.DefaultLocations()
	}
	return locs
}

// SaveLocations replaces the cached locations
func (s *LocalState) SaveLocations(ctx context.Context, locs []domain.Location) error {
	return s.write(ctx, KeyLocations, locs)
}

// Notes returns the cached notes, or none
func (s *LocalState) Notes(ctx context.Context) []domain.Note {
	raw, ok := s.read(ctx, KeyNotes)
	if !ok {
		return []domain.Note{}
	}
	notes, err := DecodeNotes(raw)
	if err != nil {
		s.log.Warning("discarding corrupt %s: %v", KeyNotes, err)
		return []domain.Note{}
	}
	return notes
}

// SaveNotes replaces the cached notes
func (s *LocalState) SaveNotes(ctx context.Context, notes []domain.Note) error {
	return s.write(ctx, KeyNotes, notes)
}

// Settings returns the stored preferences merged over the defaults
func (s *LocalState) Settings(ctx context.Context) domain.Settings {
	settings := domain.DefaultSettings()
	raw, ok := s.read(ctx, KeySettings)
	if !ok {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warning("discarding corrupt %s: %v", KeySettings, err)
		return domain.DefaultSettings()
	}
	return settings
}

// SaveSettings persists the preferences
func (s *LocalState) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return s.write(ctx, KeySettings, settings)
}

// PendingEdits returns the ids of locally edited locations awaiting a push
func (s *LocalState) PendingEdits(ctx context.Context) []string {
	raw, ok := s.read(ctx, KeyPendingEdits)
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.log.Warning("discarding corrupt %s: %v", KeyPendingEdits, err)
		return nil
	}
	return ids
}

// SavePendingEdits replaces the pending edit ids
func (s *LocalState) SavePendingEdits(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.write(ctx, KeyPendingEdits, ids)
}

// VisitorID returns the device's analytics id, creating and saving one on
// first use
func (s *LocalState) VisitorID(ctx context.Context) (string, error) {
	if raw, ok := s.read(ctx, KeyVisitorID); ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && id != "" {
			return id, nil
		}
		s.log.Warning("replacing corrupt %s", KeyVisitorID)
	}
	id := uuid.NewString()
	return id, s.write(ctx, KeyVisitorID, id)
}

func (s *LocalState) read(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			s.log.Warning("reading %s: %v", key, err)
		}
		return nil, false
	}
	return raw, true
}

func (s *LocalState) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Snapshot publishes immutable values between goroutines. Readers always
// see a whole value, old or new.
type Snapshot[T any] struct {
	p atomic.Pointer[T]
}

// NewSnapshot creates a snapshot holding v
func NewSnapshot[T any](v T) *Snapshot[T] {
	s := &Snapshot[T]{}
	s.Store(v)
	return s
}

// Load returns the current value
func (s *Snapshot[T]) Load() T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	var zero T
	return zero
}

// Store publishes a new value
func (s *Snapshot[T]) Store(v T) {
	s.p.Store(&v)
}
