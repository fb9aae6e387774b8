package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"rozadaar/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ValidateOffset checks an alert offset in minutes (0 disables the alert)
func ValidateOffset(fieldName string, minutes int) error {
	if minutes < 0 || minutes > 24*60 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be between 0 and 1440 minutes, got %d", formatFieldName(fieldName), minutes),
		}
	}
	return nil
}

func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"locationID":       "location ID",
		"noteID":           "note ID",
		"secret":           "secret",
		"sehriAlertOffset": "sehri alert offset",
		"iftarAlertOffset": "iftar alert offset",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// DecodeLocations parses a locations document and checks its structure.
// Invariant violations inside a table are not structural and pass through;
// see TableViolations.
func DecodeLocations(raw []byte) ([]domain.Location, error) {
	if !isJSONArray(raw) {
		return nil, &PayloadError{Collection: "locations", Reason: "expected a JSON array"}
	}
	var locs []domain.Location
	if err := json.Unmarshal(raw, &locs); err != nil {
		return nil, &PayloadError{Collection: "locations", Reason: err.Error()}
	}
	if err := ValidateLocations(locs); err != nil {
		return nil, err
	}
	return locs, nil
}

// ValidateLocations checks that a set of locations can replace the cache
func ValidateLocations(locs []domain.Location) error {
	if len(locs) == 0 {
		return &PayloadError{Collection: "locations", Reason: "no locations"}
	}
	seen := make(map[string]bool, len(locs))
	for _, l := range locs {
		if strings.TrimSpace(l.ID) == "" {
			return &PayloadError{Collection: "locations", Reason: "location without id"}
		}
		if seen[l.ID] {
			return &PayloadError{Collection: "locations", Reason: fmt.Sprintf("duplicate location id %q", l.ID)}
		}
		seen[l.ID] = true

		for _, r := range l.Timings {
			if _, err := r.Day(nil); err != nil {
				return &PayloadError{Collection: "locations", Reason: fmt.Sprintf("%s: %v", l.ID, err)}
			}
			if _, _, err := domain.ParseClock(r.Sehri); err != nil {
				return &PayloadError{Collection: "locations", Reason: fmt.Sprintf("%s record %d: %v", l.ID, r.ID, err)}
			}
			if _, _, err := domain.ParseClock(r.Iftar); err != nil {
				return &PayloadError{Collection: "locations", Reason: fmt.Sprintf("%s record %d: %v", l.ID, r.ID, err)}
			}
		}
	}
	return nil
}

// DecodeNotes parses a notes document and checks its structure
func DecodeNotes(raw []byte) ([]domain.Note, error) {
	if !isJSONArray(raw) {
		return nil, &PayloadError{Collection: "notes", Reason: "expected a JSON array"}
	}
	var notes []domain.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, &PayloadError{Collection: "notes", Reason: err.Error()}
	}
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if strings.TrimSpace(n.ID) == "" {
			return nil, &PayloadError{Collection: "notes", Reason: "note without id"}
		}
		if seen[n.ID] {
			return nil, &PayloadError{Collection: "notes", Reason: fmt.Sprintf("duplicate note id %q", n.ID)}
		}
		seen[n.ID] = true
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	return notes, nil
}

// TableViolations returns the data-quality violations of every location, keyed by location id
func TableViolations(locs []domain.Location) map[string][]domain.Violation {
	out := make(map[string][]domain.Violation)
	for _, l := range locs {
		if v := l.Table().Validate(); len(v) > 0 {
			out[l.ID] = v
		}
	}
	return out
}

func isJSONArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
