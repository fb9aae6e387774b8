package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rozadaar/internal/adapters/memory"
	"rozadaar/internal/application"
)

func TestReplaceCollectionCommand_Validate(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		data       string
		wantErr    error
	}{
		{name: "valid", collection: "notes", data: `[{"id":"a"},{"id":2}]`},
		{name: "empty set", collection: "notes", data: `[]`},
		{name: "unknown collection", collection: "users", data: `[]`, wantErr: application.ErrNotFound},
		{name: "not an array", collection: "notes", data: `{"id":"a"}`, wantErr: application.ErrInvalidPayload},
		{name: "missing data", collection: "notes", data: ``, wantErr: application.ErrInvalidPayload},
		{name: "element without id", collection: "locations", data: `[{"id":"a"},{"name":"b"}]`, wantErr: application.ErrInvalidPayload},
		{name: "empty id", collection: "locations", data: `[{"id":" "}]`, wantErr: application.ErrInvalidPayload},
		{name: "element not an object", collection: "locations", data: `["a"]`, wantErr: application.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewReplaceCollectionCommand(nil, tt.collection, json.RawMessage(tt.data)).Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReplaceCollectionCommand_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()

	first := `[{"id":"a","v":1},{"id":"b","v":1},{"id":"c","v":1}]`
	if _, err := NewReplaceCollectionCommand(store, "notes", json.RawMessage(first)).Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	second := `[{"id":"c","v":2},{"id":"d","v":1}]`
	res, err := NewReplaceCollectionCommand(store, "notes", json.RawMessage(second)).Execute(ctx)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Deleted != 2 || res.Upserted != 2 {
		t.Errorf("expected 2 deleted and 2 upserted, got %+v", res)
	}
	if res.Message != "Notes synced successfully" {
		t.Errorf("unexpected message %q", res.Message)
	}

	raw, err := NewListCollectionCommand(store, "notes").Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var got []struct {
		ID string `json:"id"`
		V  int    `json:"v"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("list returned invalid JSON %s: %v", raw, err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[0].V != 2 || got[1].ID != "d" {
		t.Errorf("expected exactly the submitted set in order, got %+v", got)
	}
}

func TestReplaceCollectionCommand_InvalidLeavesStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	NewReplaceCollectionCommand(store, "locations", json.RawMessage(`[{"id":"a"}]`)).Execute(ctx)

	if _, err := NewReplaceCollectionCommand(store, "locations", json.RawMessage(`[{"name":"x"}]`)).Execute(ctx); err == nil {
		t.Fatal("expected error")
	}

	raw, _ := NewListCollectionCommand(store, "locations").Execute(ctx)
	if string(raw) != `[{"id":"a"}]` {
		t.Errorf("store should be unchanged, got %s", raw)
	}
}

func TestListCollectionCommand_Empty(t *testing.T) {
	raw, err := NewListCollectionCommand(memory.NewRecordStore(), "locations").Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `[]` {
		t.Errorf("expected empty array, got %s", raw)
	}

	if _, err := NewListCollectionCommand(memory.NewRecordStore(), "secrets").Execute(context.Background()); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
