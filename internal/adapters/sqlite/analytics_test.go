package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

func TestStore_RecordVisit(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	day := time.Date(2026, 2, 20, 23, 30, 0, 0, time.UTC)

	first := domain.Visit{
		VisitorID: "v1", Platform: "Linux", LocationID: "kotli", Language: "ur",
		IsNewSession: true, IP: "10.0.0.1", UserAgent: "rozadaar-cli", Referrer: "Direct",
	}
	isNew, err := store.RecordVisit(ctx, first, day)
	if err != nil || !isNew {
		t.Fatalf("first visit: new=%v err=%v", isNew, err)
	}

	later := domain.Visit{VisitorID: "v1", Platform: "Linux", IsInstalled: true, IP: "10.0.0.2"}
	isNew, err = store.RecordVisit(ctx, later, day.Add(time.Hour))
	if err != nil || isNew {
		t.Fatalf("second visit: new=%v err=%v", isNew, err)
	}

	v, err := store.Visitor(ctx, "v1")
	if err != nil {
		t.Fatal(err)
	}
	if v.VisitCount != 2 || !v.IsInstalled || v.IP != "10.0.0.2" {
		t.Errorf("visitor not updated: %+v", v)
	}
	if v.LocationID != "kotli" || v.Language != "ur" {
		t.Errorf("empty location and language must not overwrite: %+v", v)
	}
	if !v.FirstSeen.Equal(day) || !v.LastSeen.Equal(day.Add(time.Hour)) {
		t.Errorf("seen = %v..%v", v.FirstSeen, v.LastSeen)
	}

	stats, err := store.DailyStats(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.DailyStat{
		{Date: "2026-02-20", TotalHits: 1, UniqueVisitors: 1, NewUsers: 1},
		{Date: "2026-02-21", TotalHits: 1, InstallCount: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %d days, want %d: %+v", len(stats), len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, stats[i], want[i])
		}
	}

	since, _ := store.DailyStats(ctx, "2026-02-21")
	if len(since) != 1 || since[0].Date != "2026-02-21" {
		t.Errorf("since filter returned %+v", since)
	}

	if _, err := store.Visitor(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Visitors(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, p := range []string{"Linux", "Windows", "Linux"} {
		v := domain.Visit{VisitorID: string(rune('a' + i)), Platform: p, IsInstalled: p == "Linux"}
		if _, err := store.RecordVisit(ctx, v, now.Add(-time.Duration(i)*24*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}

	users, total, err := store.Visitors(ctx, ports.VisitorFilter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(users) != 2 || users[0].VisitorID != "a" || users[1].VisitorID != "b" {
		t.Errorf("first page = %+v (total %d)", users, total)
	}

	users, total, _ = store.Visitors(ctx, ports.VisitorFilter{InstalledOnly: true, Since: now.Add(-36 * time.Hour), Limit: 10})
	if total != 1 || len(users) != 1 || users[0].VisitorID != "a" {
		t.Errorf("installed since = %+v (total %d)", users, total)
	}

	users, total, _ = store.Visitors(ctx, ports.VisitorFilter{})
	if total != 3 || users != nil {
		t.Errorf("count only must return no rows, got %d rows total %d", len(users), total)
	}

	platforms, err := store.Platforms(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.PlatformCount{{Platform: "Linux", Count: 2}, {Platform: "Windows", Count: 1}}
	if len(platforms) != 2 || platforms[0] != want[0] || platforms[1] != want[1] {
		t.Errorf("Platforms = %+v", platforms)
	}
}
