package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"rozadaar/internal/adapters/memory"
	"rozadaar/internal/application"
	"rozadaar/internal/application/reconcile"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

var pkt = time.FixedZone("PKT", 5*60*60)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func fixedClock(t *testing.T, s string) ports.Clock {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", s, pkt)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", s, err)
	}
	return ports.ClockFunc(func() time.Time { return ts })
}

func newCatalog(t *testing.T) *application.Catalog {
	t.Helper()
	return application.LoadCatalog(context.Background(), application.NewLocalState(memory.NewStateStore(), nil))
}

// recordingRemote accepts pushes unless rejecting with err. Fetches return
// serve, or an empty collection.
type recordingRemote struct {
	err       error
	serve     []byte
	locations []domain.Location
	notes     []domain.Note
	pushes    int
}

func (r *recordingRemote) FetchLocations(context.Context) ([]byte, error) {
	if r.serve != nil {
		return r.serve, nil
	}
	return []byte(`[]`), nil
}

func (r *recordingRemote) FetchNotes(context.Context) ([]byte, error) { return []byte(`[]`), nil }

func (r *recordingRemote) PushLocations(_ context.Context, _ string, locs []domain.Location) error {
	if r.err != nil {
		return r.err
	}
	r.pushes++
	r.locations = locs
	return nil
}

func (r *recordingRemote) PushNotes(_ context.Context, _ string, notes []domain.Note) error {
	if r.err != nil {
		return r.err
	}
	r.pushes++
	r.notes = notes
	return nil
}

func newReconciler(catalog *application.Catalog, remote ports.RemoteSource) *reconcile.Reconciler {
	return reconcile.NewReconciler(remote, catalog, nil, nil, nil)
}
