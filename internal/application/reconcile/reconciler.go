package reconcile

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// Result summarizes one sync attempt
type Result struct {
	LocationsChanged bool
	NotesChanged     bool
	// Rejected lists collections whose remote payload was malformed
	Rejected []string
	// Violations holds data-quality problems of accepted tables, by location id
	Violations map[string][]domain.Violation
	// Pending lists locally edited locations the merge left alone
	Pending []string
}

// Changed reports whether the cache was rewritten
func (r Result) Changed() bool {
	return r.LocationsChanged || r.NotesChanged
}

// Reconciler pulls the remote collections into the catalog and pushes
// admin edits back
type Reconciler struct {
	remote   ports.RemoteSource
	catalog  *application.Catalog
	sessions *EditSessions
	clock    ports.Clock
	log      logger.Logger

	flight singleflight.Group
}

// NewReconciler creates a reconciler. clock stamps LastSyncTime and is
// normally the corrected clock.
func NewReconciler(remote ports.RemoteSource, catalog *application.Catalog, sessions *EditSessions, clock ports.Clock, log logger.Logger) *Reconciler {
	if sessions == nil {
		sessions = NewEditSessions()
	}
	if clock == nil {
		clock = ports.SystemClock
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Reconciler{
		remote:   remote,
		catalog:  catalog,
		sessions: sessions,
		clock:    clock,
		log:      log,
	}
}

// Sessions returns the edit-session gate
func (r *Reconciler) Sessions() *EditSessions {
	return r.sessions
}

// SyncOnce fetches both collections and merges them into the cache.
// Concurrent calls share a single attempt. Network failures are returned
// and leave the cache untouched; malformed payloads are logged and skipped.
func (r *Reconciler) SyncOnce(ctx context.Context) (Result, error) {
	v, err, _ := r.flight.Do("sync", func() (any, error) {
		return r.syncOnce(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (r *Reconciler) syncOnce(ctx context.Context) (Result, error) {
	var rawLocations, rawNotes []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := r.remote.FetchLocations(gctx)
		if err != nil {
			return fmt.Errorf("fetching locations: %w", err)
		}
		rawLocations = raw
		return nil
	})
	g.Go(func() error {
		raw, err := r.remote.FetchNotes(gctx)
		if err != nil {
			return fmt.Errorf("fetching notes: %w", err)
		}
		rawNotes = raw
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Another process may have written the cache since it was loaded
	r.catalog.Refresh(ctx)

	var res Result
	res.Pending = r.catalog.PendingEdits(ctx)
	if len(res.Pending) > 0 {
		r.log.Info("keeping unpushed local edits: %v", res.Pending)
	}
	keepLocal := func(scope string) bool {
		return r.sessions.Editing(scope) || slices.Contains(res.Pending, scope)
	}

	if locs, err := application.DecodeLocations(rawLocations); err != nil {
		r.log.Warning("ignoring remote locations: %v", err)
		res.Rejected = append(res.Rejected, "locations")
	} else {
		res.Violations = application.TableViolations(locs)
		for id, violations := range res.Violations {
			for _, v := range violations {
				r.log.Warning("location %s: %s", id, v)
			}
		}

		merged, changed := MergeLocations(locs, r.catalog.Locations(), keepLocal)
		if changed {
			if err := r.catalog.ReplaceLocations(ctx, merged); err != nil {
				return res, err
			}
			res.LocationsChanged = true
		}
	}

	if notes, err := application.DecodeNotes(rawNotes); err != nil {
		r.log.Warning("ignoring remote notes: %v", err)
		res.Rejected = append(res.Rejected, "notes")
	} else {
		merged, changed := MergeNotes(notes, r.catalog.Notes(), r.sessions.Editing(NotesScope))
		if changed {
			if err := r.catalog.ReplaceNotes(ctx, merged); err != nil {
				return res, err
			}
			res.NotesChanged = true
		}
	}

	if res.Changed() {
		if err := r.catalog.MarkSynced(ctx, r.clock.Now()); err != nil {
			r.log.Warning("failed to record sync time: %v", err)
		}
		r.log.Info("sync applied (locations changed: %v, notes changed: %v)", res.LocationsChanged, res.NotesChanged)
	}
	return res, nil
}

// PushLocations replaces the remote locations with locs and, once accepted,
// the local cache too, clearing pending local edits. A wrong secret yields
// ErrUnauthorized.
func (r *Reconciler) PushLocations(ctx context.Context, secret string, locs []domain.Location) error {
	if err := application.ValidateRequired("secret", secret); err != nil {
		return err
	}
	if err := application.ValidateLocations(locs); err != nil {
		return err
	}
	if err := r.remote.PushLocations(ctx, secret, locs); err != nil {
		return err
	}
	if err := r.catalog.ReplaceLocations(ctx, locs); err != nil {
		return err
	}
	return r.catalog.ClearPendingEdits(ctx)
}

// PushNotes replaces the remote notes with notes and, once accepted, the local cache too
func (r *Reconciler) PushNotes(ctx context.Context, secret string, notes []domain.Note) error {
	if err := application.ValidateRequired("secret", secret); err != nil {
		return err
	}
	if err := r.remote.PushNotes(ctx, secret, notes); err != nil {
		return err
	}
	return r.catalog.ReplaceNotes(ctx, notes)
}
