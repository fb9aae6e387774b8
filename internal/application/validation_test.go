package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "locationID",
			value:     "sunwarian",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "locationID",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "secret",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateOffset(t *testing.T) {
	for _, ok := range []int{0, 20, 60, 1440} {
		if err := ValidateOffset("sehriAlertOffset", ok); err != nil {
			t.Errorf("offset %d should be valid: %v", ok, err)
		}
	}
	for _, bad := range []int{-1, 1441} {
		if err := ValidateOffset("sehriAlertOffset", bad); err == nil {
			t.Errorf("offset %d should be rejected", bad)
		}
	}
}

func TestDecodeLocations(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `[{"id":"a","name_en":"A","timings":[{"id":1,"date":"2026-02-17","sehri":"05:25","iftar":"17:50"}]}]`,
		},
		{
			name: "gap is not structural",
			raw: `[{"id":"a","timings":[{"id":1,"date":"2026-02-17","sehri":"05:25","iftar":"17:50"},
				{"id":2,"date":"2026-02-20","sehri":"05:22","iftar":"17:53"}]}]`,
		},
		{name: "object instead of array", raw: `{"id":"a"}`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "empty list", raw: `[]`, wantErr: true},
		{name: "missing id", raw: `[{"name_en":"A"}]`, wantErr: true},
		{name: "duplicate id", raw: `[{"id":"a"},{"id":"a"}]`, wantErr: true},
		{name: "bad date", raw: `[{"id":"a","timings":[{"id":1,"date":"17-02-2026","sehri":"05:25","iftar":"17:50"}]}]`, wantErr: true},
		{name: "bad clock", raw: `[{"id":"a","timings":[{"id":1,"date":"2026-02-17","sehri":"late","iftar":"17:50"}]}]`, wantErr: true},
		{name: "truncated", raw: `[{"id":"a"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLocations([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeLocations() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestDecodeNotes(t *testing.T) {
	notes, err := DecodeNotes([]byte(`[]`))
	if err != nil {
		t.Fatalf("empty notes should be valid: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", notes)
	}

	if _, err := DecodeNotes([]byte(`[{"id":""}]`)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for empty id, got %v", err)
	}
	if _, err := DecodeNotes([]byte(`"nope"`)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for non-array, got %v", err)
	}
}

func TestPushError_IsUnauthorized(t *testing.T) {
	err := error(&PushError{Collection: "notes", Status: 403, Reason: "wrong secret"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("403 push error should match ErrUnauthorized")
	}

	err = &PushError{Collection: "notes", Status: 500, Reason: "boom"}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("500 push error should not match ErrUnauthorized")
	}
}

func TestRemoteError_IsUnauthorized(t *testing.T) {
	if err := error(&RemoteError{Op: "fetching stats", Status: 403}); !errors.Is(err, ErrUnauthorized) {
		t.Error("403 remote error should match ErrUnauthorized")
	}
	if err := error(&RemoteError{Op: "fetching stats", Status: 502}); errors.Is(err, ErrUnauthorized) {
		t.Error("502 remote error should not match ErrUnauthorized")
	}
}
