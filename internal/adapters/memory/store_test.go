package memory

import (
	"context"
	"errors"
	"testing"

	"rozadaar/internal/ports"
)

func TestStateStore(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	value := []byte("42")
	if err := s.Put(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "42" {
		t.Errorf("store must keep its own copy, got %q", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting an absent key should succeed: %v", err)
	}
}

func TestRecordStore_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore()

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tx.Upsert("notes", 0, ports.Record{ID: "a", Body: []byte(`{"id":"a"}`)})
	tx.Upsert("notes", 1, ports.Record{ID: "b", Body: []byte(`{"id":"b"}`)})
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	tx, _ = s.BeginTx(ctx)
	tx.Delete("notes", "a")
	tx.Rollback()

	recs, _ := s.List(ctx, "notes")
	if len(recs) != 2 || recs[0].ID != "a" || recs[1].ID != "b" {
		t.Fatalf("rollback must leave data untouched, got %+v", recs)
	}

	tx, _ = s.BeginTx(ctx)
	tx.Upsert("notes", 0, ports.Record{ID: "b", Body: []byte(`{"id":"b","v":2}`)})
	tx.Commit()

	recs, _ = s.List(ctx, "notes")
	if len(recs) != 2 || recs[0].ID != "b" || string(recs[0].Body) != `{"id":"b","v":2}` {
		t.Errorf("upsert should replace and reposition, got %+v", recs)
	}

	if err := tx.Commit(); err == nil {
		t.Error("second commit should fail")
	}
}
