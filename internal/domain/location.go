package domain

import (
	"sort"
	"strings"
)

// LocalizedText holds the English and Urdu variant of a string
type LocalizedText struct {
	En string `json:"en"`
	Ur string `json:"ur"`
}

// Location is a scope: a named place with its own timetable
type Location struct {
	ID                string         `json:"id"`      // e.g., "sunwarian"
	NameEn            string         `json:"name_en"` // e.g., "Sunwarian, AJK"
	NameUr            string         `json:"name_ur"`
	Timings           []DayRecord    `json:"timings"`
	WhatsappNumber    string         `json:"whatsapp_number,omitempty"`
	CustomMessage     *LocalizedText `json:"custom_message,omitempty"`
	WhatsappCommunity string         `json:"whatsapp_community,omitempty"`
}

// Table returns the location's timetable as a fresh BoundaryTable
func (l Location) Table() *BoundaryTable {
	return NewBoundaryTable(l.ID, l.Timings)
}

// FindLocation returns the location with the given id. When the id is
// unknown the first location is returned, matching what a fresh install shows.
func FindLocation(locations []Location, id string) (Location, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	if len(locations) > 0 {
		return locations[0], false
	}
	return Location{}, false
}

// SearchLocations filters locations by a case-insensitive match on either name or id
func SearchLocations(locations []Location, query string) []Location {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return locations
	}
	var out []Location
	for _, l := range locations {
		if strings.Contains(strings.ToLower(l.NameEn), q) ||
			strings.Contains(l.NameUr, query) ||
			strings.Contains(strings.ToLower(l.ID), q) {
			out = append(out, l)
		}
	}
	return out
}

// Note types
const (
	NoteTypeNote  = "note"
	NoteTypeGuide = "guide"
)

// Note is an annotation shown globally or for a single location
type Note struct {
	ID         string        `json:"id"`
	Text       LocalizedText `json:"text"`
	IsGlobal   bool          `json:"isGlobal"`
	LocationID string        `json:"locationId,omitempty"`
	Type       string        `json:"type,omitempty"`
}

// VisibleNotes returns the notes shown for a location: location-specific
// notes first, then global ones, each group in original order.
func VisibleNotes(notes []Note, locationID string) []Note {
	var out []Note
	for _, n := range notes {
		if n.IsGlobal || n.LocationID == locationID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].IsGlobal && out[j].IsGlobal
	})
	return out
}
