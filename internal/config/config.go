package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultAPIURL       = "http://localhost:5000"
	DefaultTimezone     = "Asia/Karachi"
	DefaultPort         = "5000"
	DefaultSyncInterval = time.Minute
)

// DataDir returns the directory holding local state, honouring XDG_DATA_HOME
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "rozadaar")
}

// StatePath returns the SQLite path for device state from ROZADAAR_DATA,
// falling back to state.db in DataDir.
func StatePath() string {
	if env := os.Getenv("ROZADAAR_DATA"); env != "" {
		return env
	}
	return filepath.Join(DataDir(), "state.db")
}

// ServerDBPath returns the SQLite path used by rozadaar-server
func ServerDBPath() string {
	if env := os.Getenv("ROZADAAR_SERVER_DB"); env != "" {
		return env
	}
	return filepath.Join(DataDir(), "server.db")
}

// LogPath returns the log file used by the TUI
func LogPath() string {
	return filepath.Join(DataDir(), "rozadaar.log")
}

// APIURL returns the remote base URL from ROZADAAR_API
func APIURL() string {
	if env := os.Getenv("ROZADAAR_API"); env != "" {
		return env
	}
	return DefaultAPIURL
}

// Secret returns the shared admin secret from ROZADAAR_SECRET
func Secret() string {
	return os.Getenv("ROZADAAR_SECRET")
}

// MQTTBroker returns the optional broker address for alert fan-out
func MQTTBroker() string {
	return os.Getenv("ROZADAAR_MQTT_BROKER")
}

// Sound reports whether alerts play a chime. ROZADAAR_SOUND set to off,
// false, 0 or no disables it.
func Sound() bool {
	return enabled("ROZADAAR_SOUND")
}

// Analytics reports whether app starts are reported to the API.
// ROZADAAR_ANALYTICS accepts the same off values as ROZADAAR_SOUND.
func Analytics() bool {
	return enabled("ROZADAAR_ANALYTICS")
}

func enabled(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "off", "false", "0", "no":
		return false
	}
	return true
}

// Port returns the listen port for rozadaar-server
func Port() string {
	if env := os.Getenv("PORT"); env != "" {
		return env
	}
	return DefaultPort
}

// SyncInterval returns the data-sync poll interval. Unparseable or
// non-positive values fall back to DefaultSyncInterval.
func SyncInterval() time.Duration {
	if env := os.Getenv("ROZADAAR_SYNC_INTERVAL"); env != "" {
		if d, err := time.ParseDuration(env); err == nil && d > 0 {
			return d
		}
	}
	return DefaultSyncInterval
}

// Timezone returns the zone in which daily boundaries are interpreted
func Timezone() string {
	if env := os.Getenv("ROZADAAR_TZ"); env != "" {
		return env
	}
	return DefaultTimezone
}

// Location loads the configured zone, falling back to the local zone
func Location() *time.Location {
	loc, err := time.LoadLocation(Timezone())
	if err != nil {
		return time.Local
	}
	return loc
}
