package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStatePath(t *testing.T) {
	t.Setenv("ROZADAAR_DATA", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	if got := StatePath(); got != filepath.Join("/tmp/xdg", "rozadaar", "state.db") {
		t.Errorf("unexpected default state path: %s", got)
	}

	t.Setenv("ROZADAAR_DATA", "/var/lib/rozadaar.db")
	if got := StatePath(); got != "/var/lib/rozadaar.db" {
		t.Errorf("expected env override, got %s", got)
	}
}

func TestSyncInterval(t *testing.T) {
	tests := []struct {
		env  string
		want time.Duration
	}{
		{"", DefaultSyncInterval},
		{"30s", 30 * time.Second},
		{"soon", DefaultSyncInterval},
		{"-1m", DefaultSyncInterval},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("ROZADAAR_SYNC_INTERVAL", tt.env)
			if got := SyncInterval(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLocation_FallsBackOnUnknownZone(t *testing.T) {
	t.Setenv("ROZADAAR_TZ", "Mars/Olympus")

	if got := Location(); got != time.Local {
		t.Errorf("expected local zone fallback, got %v", got)
	}
}

func TestSound(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"", true},
		{"on", true},
		{"off", false},
		{" False ", false},
		{"0", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("ROZADAAR_SOUND", tt.env)
			if got := Sound(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAnalytics(t *testing.T) {
	t.Setenv("ROZADAAR_ANALYTICS", "")
	if !Analytics() {
		t.Error("analytics must default to on")
	}
	t.Setenv("ROZADAAR_ANALYTICS", "no")
	if Analytics() {
		t.Error("expected analytics off")
	}
}
