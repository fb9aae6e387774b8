package domain

import (
	_ "embed"
	"encoding/json"
)

//go:embed defaults.json
var defaultLocationsJSON []byte

// DefaultLocations returns the timetable shipped with the binary. It is used
// whenever the local cache is missing or unreadable.
func DefaultLocations() []Location {
	var locs []Location
	if err := json.Unmarshal(defaultLocationsJSON, &locs); err != nil {
		panic("domain: embedded defaults.json is invalid: " + err.Error())
	}
	return locs
}
