package domain

// Settings are the user preferences persisted on the device
type Settings struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	Language             string `json:"language"`
	SelectedLocationID   string `json:"selectedLocationId"`
	AutoSync             bool   `json:"autoSync"`
	LastSyncTime         string `json:"lastSyncTime,omitempty"`
	SehriAlertOffset     int    `json:"sehriAlertOffset"` // minutes, 0 = off
	IftarAlertOffset     int    `json:"iftarAlertOffset"` // minutes, 0 = off
}

// DefaultSettings returns the compiled-in preferences
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled: true,
		Language:             "en",
		SelectedLocationID:   "sunwarian",
		AutoSync:             true,
		SehriAlertOffset:     60,
		IftarAlertOffset:     20,
	}
}

// AlertConfig returns the alert thresholds derived from the settings
func (s Settings) AlertConfig() AlertConfig {
	return AlertConfig{
		Enabled:            s.NotificationsEnabled,
		StartOffsetMinutes: max(s.SehriAlertOffset, 0),
		EndOffsetMinutes:   max(s.IftarAlertOffset, 0),
	}
}

// AlertConfig controls which alerts the countdown engine fires.
// An offset of 0 disables that offset alert only.
type AlertConfig struct {
	Enabled            bool
	StartOffsetMinutes int
	EndOffsetMinutes   int
}

// OffsetFor returns the configured offset in minutes for a boundary
func (c AlertConfig) OffsetFor(kind BoundaryKind) int {
	if kind == BoundaryEnd {
		return c.EndOffsetMinutes
	}
	return c.StartOffsetMinutes
}
