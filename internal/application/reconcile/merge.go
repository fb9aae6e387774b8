// Package reconcile keeps the local cache of locations and notes in line
// with the remote source without ever clobbering an open edit.
package reconcile

import (
	"bytes"
	"encoding/json"
	"slices"
	"sync"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
)

// NotesScope is the edit-session key guarding the notes collection
const NotesScope = "@notes"

// EditSessions tracks scopes with an open local edit
type EditSessions struct {
	mu     sync.Mutex
	active map[string]bool
}

// NewEditSessions creates an empty gate
func NewEditSessions() *EditSessions {
	return &EditSessions{active: make(map[string]bool)}
}

// Begin opens an edit session on scope. Only one session per scope may be open.
func (s *EditSessions) Begin(scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[scope] {
		return application.ErrEditInProgress
	}
	s.active[scope] = true
	return nil
}

// End closes the edit session on scope
func (s *EditSessions) End(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, scope)
}

// Editing reports whether scope has an open session. A nil gate has none.
func (s *EditSessions) Editing(scope string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[scope]
}

// MergeLocations reconciles remote locations into local ones. Remote wins
// for every scope except those being edited, which keep their local value
// unchanged. changed is false when the result equals local.
func MergeLocations(remote, local []domain.Location, editing func(scope string) bool) ([]domain.Location, bool) {
	if editing == nil {
		editing = func(string) bool { return false }
	}

	localByID := make(map[string]domain.Location, len(local))
	for _, l := range local {
		localByID[l.ID] = l
	}

	result := make([]domain.Location, 0, len(remote))
	seen := make(map[string]bool, len(remote))
	for _, r := range remote {
		seen[r.ID] = true
		if l, ok := localByID[r.ID]; ok && (editing(r.ID) || sameJSON(l, r)) {
			result = append(result, l)
			continue
		}
		if _, ok := localByID[r.ID]; !ok && editing(r.ID) {
			// Nothing local to protect yet; the edit will push its own value
			continue
		}
		result = append(result, r)
	}

	// Scopes gone from remote survive only while being edited
	for _, l := range local {
		if !seen[l.ID] && editing(l.ID) {
			result = append(result, l)
		}
	}

	if sameJSON(result, local) {
		return local, false
	}
	return result, true
}

// MergeNotes reconciles the remote notes collection into the local one
func MergeNotes(remote, local []domain.Note, editing bool) ([]domain.Note, bool) {
	if editing || sameJSON(remote, local) {
		return local, false
	}
	return slices.Clone(remote), true
}

// sameJSON compares values by their serialized form
func sameJSON(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
