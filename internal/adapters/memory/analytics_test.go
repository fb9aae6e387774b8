package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

func TestAnalyticsStore(t *testing.T) {
	ctx := context.Background()
	s := NewAnalyticsStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if isNew, _ := s.RecordVisit(ctx, domain.Visit{VisitorID: "a", Platform: "Linux", IsNewSession: true}, now.Add(-48*time.Hour)); !isNew {
		t.Error("first visit must be new")
	}
	if isNew, _ := s.RecordVisit(ctx, domain.Visit{VisitorID: "b", Platform: "Mac", IsInstalled: true}, now.Add(-time.Hour)); !isNew {
		t.Error("first visit must be new")
	}
	if isNew, _ := s.RecordVisit(ctx, domain.Visit{VisitorID: "a", Platform: "Linux"}, now); isNew {
		t.Error("returning visitor must not be new")
	}

	stats, _ := s.DailyStats(ctx, "")
	if len(stats) != 2 || stats[0].Date != "2026-02-27" || stats[1] != (domain.DailyStat{Date: "2026-03-01", TotalHits: 2, NewUsers: 1, InstallCount: 1}) {
		t.Errorf("DailyStats = %+v", stats)
	}

	users, total, _ := s.Visitors(ctx, ports.VisitorFilter{Limit: 1, Offset: 1})
	if total != 2 || len(users) != 1 || users[0].VisitorID != "b" {
		t.Errorf("second page = %+v (total %d)", users, total)
	}
	if _, total, _ := s.Visitors(ctx, ports.VisitorFilter{InstalledOnly: true}); total != 1 {
		t.Errorf("installed total = %d, want 1", total)
	}
	if _, total, _ := s.Visitors(ctx, ports.VisitorFilter{Since: now.Add(-2 * time.Hour)}); total != 2 {
		t.Errorf("recent total = %d, want 2", total)
	}

	if v, err := s.Visitor(ctx, "a"); err != nil || v.VisitCount != 2 {
		t.Errorf("Visitor(a) = %+v, %v", v, err)
	}
	if _, err := s.Visitor(ctx, "zz"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	platforms, _ := s.Platforms(ctx)
	if len(platforms) != 2 || platforms[0].Platform != "Linux" || platforms[1].Platform != "Mac" {
		t.Errorf("Platforms = %+v", platforms)
	}
}
