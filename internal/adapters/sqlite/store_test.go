package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"rozadaar/internal/application"
	"rozadaar/internal/application/commands"
	"rozadaar/internal/ports"
)

func openTestStore(t testing.TB) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestStore_Meta(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Get(ctx, application.KeyTimeOffset); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, application.KeyTimeOffset, []byte("-1200")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, application.KeyTimeOffset, []byte("350")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, application.KeyTimeOffset)
	if err != nil || string(got) != "350" {
		t.Errorf("expected latest value 350, got %q (%v)", got, err)
	}
	if err := store.Delete(ctx, application.KeyTimeOffset); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, application.KeyTimeOffset); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	state := application.NewLocalState(store, nil)
	if err := state.SaveOffset(ctx, 4200); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if ms, ok := application.NewLocalState(reopened, nil).Offset(ctx); !ok || ms != 4200 {
		t.Errorf("expected persisted offset 4200, got %d (ok=%v)", ms, ok)
	}
}

func TestStore_ReplaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	replace := func(data string) {
		t.Helper()
		if _, err := commands.NewReplaceCollectionCommand(store, "locations", json.RawMessage(data)).Execute(ctx); err != nil {
			t.Fatalf("replace failed: %v", err)
		}
	}

	replace(`[{"id":"b","n":1},{"id":"a","n":1},{"id":"c","n":1}]`)
	replace(`[{"id":"c","n":2},{"id":"b","n":2}]`)

	records, err := store.List(ctx, "locations")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != "c" || records[1].ID != "b" {
		t.Fatalf("expected [c b], got %+v", records)
	}
	if string(records[0].Body) != `{"id":"c","n":2}` {
		t.Errorf("body not replaced: %s", records[0].Body)
	}

	if others, _ := store.List(ctx, "notes"); len(others) != 0 {
		t.Errorf("collections must be independent, got %+v", others)
	}
}

func TestStore_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Upsert("notes", 0, ports.Record{ID: "n1", Body: []byte(`{"id":"n1"}`)}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	if records, _ := store.List(ctx, "notes"); len(records) != 0 {
		t.Errorf("rolled back upsert is visible: %+v", records)
	}
}

// BenchmarkReplace measures a full-replace write of a 30-day table set
func BenchmarkReplace(b *testing.B) {
	ctx := context.Background()
	store := openTestStore(b)

	var locs []map[string]any
	for i := 0; i < 20; i++ {
		locs = append(locs, map[string]any{"id": fmt.Sprintf("loc-%02d", i), "timings": make([]int, 30)})
	}
	data, _ := json.Marshal(locs)

	b.ResetTimer()
	for b.Loop() {
		if _, err := commands.NewReplaceCollectionCommand(store, "locations", data).Execute(ctx); err != nil {
			b.Fatalf("replace failed: %v", err)
		}
	}
}
