package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"rozadaar/internal/ports"
)

func TestStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	s := NewStore()

	got, err := s.Secret()
	if err != nil || got != "" {
		t.Fatalf("empty keyring: got %q, %v", got, err)
	}

	if err := s.SaveSecret("  hunter2\n"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Secret(); got != "hunter2" {
		t.Errorf("Secret() = %q, want trimmed value", got)
	}

	if err := s.ClearSecret(); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearSecret(); err != nil {
		t.Errorf("clearing twice must succeed, got %v", err)
	}
	if got, _ := s.Secret(); got != "" {
		t.Errorf("expected cleared secret, got %q", got)
	}
}

func TestStore_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	if err := NewStore().SaveSecret("   "); err == nil {
		t.Error("expected an error for an empty secret")
	}
}

func TestStore_ReadFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus unavailable"))
	s := NewStore()

	if _, err := s.Secret(); err == nil {
		t.Error("expected read failure")
	}
	if got := Resolve("", s); got != "" {
		t.Errorf("Resolve with a broken keyring = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	keyring.MockInit()
	s := NewStore()
	if err := s.SaveSecret("stored"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		explicit string
		store    ports.SecretStore
		want     string
	}{
		{"explicit wins", "flag", s, "flag"},
		{"falls back to keyring", "", s, "stored"},
		{"no store", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.explicit, tt.store); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
