package commands

import (
	"context"
	"runtime"
	"strings"
	"time"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// Analytics report sizes
const (
	HistoryDays       = 30
	RecentUserCount   = 50
	TrackVisitTimeout = 5 * time.Second
)

// RecordVisitCommand counts a visit reported by a device
type RecordVisitCommand struct {
	store ports.AnalyticsStore
	Visit domain.Visit
	At    time.Time
}

// NewRecordVisitCommand creates a new RecordVisitCommand
func NewRecordVisitCommand(store ports.AnalyticsStore, visit domain.Visit, at time.Time) *RecordVisitCommand {
	visit.VisitorID = strings.TrimSpace(visit.VisitorID)
	return &RecordVisitCommand{store: store, Visit: visit, At: at}
}

// Validate checks the visit names its visitor
func (c *RecordVisitCommand) Validate() error {
	return application.ValidateRequired("visitorId", c.Visit.VisitorID)
}

// Execute stores the visit and reports whether the visitor was new
func (c *RecordVisitCommand) Execute(ctx context.Context) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	return c.store.RecordVisit(ctx, c.Visit, c.At)
}

// StatsCommand builds the analytics dashboard
type StatsCommand struct {
	store ports.AnalyticsStore
	Now   time.Time
}

// NewStatsCommand creates a new StatsCommand
func NewStatsCommand(store ports.AnalyticsStore, now time.Time) *StatsCommand {
	return &StatsCommand{store: store, Now: now}
}

// Execute aggregates the stored counters. History covers the last
// HistoryDays UTC days including today.
func (c *StatsCommand) Execute(ctx context.Context) (*domain.StatsReport, error) {
	days, err := c.store.DailyStats(ctx, "")
	if err != nil {
		return nil, err
	}
	_, total, err := c.store.Visitors(ctx, ports.VisitorFilter{})
	if err != nil {
		return nil, err
	}
	_, installed, err := c.store.Visitors(ctx, ports.VisitorFilter{InstalledOnly: true})
	if err != nil {
		return nil, err
	}
	recent, _, err := c.store.Visitors(ctx, ports.VisitorFilter{Limit: RecentUserCount})
	if err != nil {
		return nil, err
	}
	platforms, err := c.store.Platforms(ctx)
	if err != nil {
		return nil, err
	}

	today := domain.StatDate(c.Now)
	weekStart := domain.StatDate(c.Now.AddDate(0, 0, -7))
	monthStart := domain.StatDate(c.Now.AddDate(0, 0, -30))
	historyStart := domain.StatDate(c.Now.AddDate(0, 0, -(HistoryDays - 1)))

	var lifetime, todayStat, week, month domain.DailyStat
	history := []domain.DailyStat{}
	for _, d := range days {
		lifetime.Add(d)
		if d.Date == today {
			todayStat.Add(d)
		}
		if d.Date >= weekStart {
			week.Add(d)
		}
		if d.Date >= monthStart {
			month.Add(d)
		}
		if d.Date >= historyStart {
			history = append(history, d)
		}
	}

	lifetimeTotals := domain.TotalsOf(lifetime)
	lifetimeTotals.Visitors = total
	lifetimeTotals.Installs = installed
	if recent == nil {
		recent = []domain.Visitor{}
	}

	return &domain.StatsReport{
		Overall: domain.NewOverall(total, installed),
		Metrics: domain.Metrics{
			Lifetime: lifetimeTotals,
			Today:    domain.TotalsOf(todayStat),
			Week:     domain.TotalsOf(week),
			Month:    domain.TotalsOf(month),
		},
		History:     history,
		Platforms:   platforms,
		RecentUsers: recent,
	}, nil
}

// ListVisitorsCommand pages through visitors, most recently seen first
type ListVisitorsCommand struct {
	store ports.AnalyticsStore
	Query domain.VisitorQuery
	Now   time.Time
}

// NewListVisitorsCommand creates a new ListVisitorsCommand
func NewListVisitorsCommand(store ports.AnalyticsStore, query domain.VisitorQuery, now time.Time) *ListVisitorsCommand {
	return &ListVisitorsCommand{store: store, Query: query.Normalize(), Now: now}
}

// Execute returns the requested page
func (c *ListVisitorsCommand) Execute(ctx context.Context) (*domain.VisitorPage, error) {
	q := c.Query
	filter := ports.VisitorFilter{
		InstalledOnly: q.InstalledOnly,
		Offset:        (q.Page - 1) * q.Limit,
		Limit:         q.Limit,
	}
	if since, ok := q.Period.Since(c.Now); ok {
		filter.Since = since
	}

	users, total, err := c.store.Visitors(ctx, filter)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.Visitor{}
	}
	return &domain.VisitorPage{
		Users:      users,
		Total:      total,
		Page:       q.Page,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

// TrackVisitCommand reports this process start to the analytics API
type TrackVisitCommand struct {
	client    ports.AnalyticsClient
	catalog   *application.Catalog
	Installed bool
	Client    string
}

// NewTrackVisitCommand creates a new TrackVisitCommand. Installed marks
// background daemons and autostart entries; client names the binary.
func NewTrackVisitCommand(client ports.AnalyticsClient, catalog *application.Catalog, installed bool, clientName string) *TrackVisitCommand {
	return &TrackVisitCommand{client: client, catalog: catalog, Installed: installed, Client: clientName}
}

// Visit builds the report from the persisted visitor id and the settings
func (c *TrackVisitCommand) Visit(ctx context.Context) (domain.Visit, error) {
	id, err := c.catalog.State().VisitorID(ctx)
	if err != nil {
		return domain.Visit{}, err
	}
	settings := c.catalog.Settings()
	return domain.Visit{
		VisitorID:    id,
		IsInstalled:  c.Installed,
		Platform:     domain.PlatformOf("", runtime.GOOS),
		LocationID:   settings.SelectedLocationID,
		Language:     settings.Language,
		IsNewSession: true,
		UserAgent:    c.Client + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")",
		Referrer:     "Direct",
	}, nil
}

// Execute sends the visit, bounded by TrackVisitTimeout
func (c *TrackVisitCommand) Execute(ctx context.Context) error {
	visit, err := c.Visit(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, TrackVisitTimeout)
	defer cancel()
	return c.client.TrackVisit(ctx, visit)
}
