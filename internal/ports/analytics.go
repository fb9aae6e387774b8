package ports

import (
	"context"
	"time"

	"rozadaar/internal/domain"
)

// VisitorFilter selects visitors ordered by last activity, most recent first
type VisitorFilter struct {
	Since         time.Time // zero includes everyone
	InstalledOnly bool
	Offset        int
	Limit         int // zero or less counts without returning rows
}

// AnalyticsStore persists visitor profiles and daily counters
type AnalyticsStore interface {
	// RecordVisit creates or updates the visitor and counts the visit on the
	// UTC day of at. It reports whether the visitor was new.
	RecordVisit(ctx context.Context, visit domain.Visit, at time.Time) (bool, error)

	// DailyStats returns the days on or after since (YYYY-MM-DD) in date
	// order. An empty since returns every day.
	DailyStats(ctx context.Context, since string) ([]domain.DailyStat, error)

	// Visitors returns the matching page and the total number of matches
	Visitors(ctx context.Context, filter VisitorFilter) ([]domain.Visitor, int, error)

	// Visitor returns one profile, or ErrNotFound
	Visitor(ctx context.Context, visitorID string) (domain.Visitor, error)

	// Platforms counts visitors per platform, largest first
	Platforms(ctx context.Context) ([]domain.PlatformCount, error)
}

// AnalyticsClient is the device side of the analytics API
type AnalyticsClient interface {
	TrackVisit(ctx context.Context, visit domain.Visit) error

	// The reads require the admin secret
	Stats(ctx context.Context, secret string) (domain.StatsReport, error)
	Visitors(ctx context.Context, secret string, query domain.VisitorQuery) (domain.VisitorPage, error)
	Visitor(ctx context.Context, secret, visitorID string) (domain.Visitor, error)
}
