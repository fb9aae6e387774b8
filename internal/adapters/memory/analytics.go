package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

// AnalyticsStore implements ports.AnalyticsStore over maps
type AnalyticsStore struct {
	mu       sync.RWMutex
	visitors map[string]domain.Visitor
	days     map[string]domain.DailyStat
}

// Ensure AnalyticsStore implements ports.AnalyticsStore
var _ ports.AnalyticsStore = (*AnalyticsStore)(nil)

// NewAnalyticsStore creates an empty analytics store
func NewAnalyticsStore() *AnalyticsStore {
	return &AnalyticsStore{
		visitors: make(map[string]domain.Visitor),
		days:     make(map[string]domain.DailyStat),
	}
}

func (s *AnalyticsStore) RecordVisit(_ context.Context, visit domain.Visit, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.visitors[visit.VisitorID]
	if ok {
		profile.Apply(visit, at)
	} else {
		profile = domain.NewVisitor(visit, at)
	}
	s.visitors[visit.VisitorID] = profile

	date := domain.StatDate(at)
	day := s.days[date]
	day.Date = date
	day.Count(visit, !ok)
	s.days[date] = day
	return !ok, nil
}

func (s *AnalyticsStore) DailyStats(_ context.Context, since string) ([]domain.DailyStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := []domain.DailyStat{}
	for date, d := range s.days {
		if date >= since {
			stats = append(stats, d)
		}
	}
	slices.SortFunc(stats, func(a, b domain.DailyStat) int { return cmp.Compare(a.Date, b.Date) })
	return stats, nil
}

func (s *AnalyticsStore) Visitors(_ context.Context, f ports.VisitorFilter) ([]domain.Visitor, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Visitor
	for _, v := range s.visitors {
		if v.LastSeen.Before(f.Since) || (f.InstalledOnly && !v.IsInstalled) {
			continue
		}
		matched = append(matched, v)
	}
	if f.Limit <= 0 {
		return nil, len(matched), nil
	}

	slices.SortFunc(matched, func(a, b domain.Visitor) int {
		if c := b.LastSeen.Compare(a.LastSeen); c != 0 {
			return c
		}
		return cmp.Compare(a.VisitorID, b.VisitorID)
	})
	start := min(max(f.Offset, 0), len(matched))
	end := min(start+f.Limit, len(matched))
	return slices.Clone(matched[start:end]), len(matched), nil
}

func (s *AnalyticsStore) Visitor(_ context.Context, visitorID string) (domain.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return domain.Visitor{}, ports.ErrNotFound
	}
	return v, nil
}

func (s *AnalyticsStore) Platforms(_ context.Context) ([]domain.PlatformCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPlatform := make(map[string]int)
	for _, v := range s.visitors {
		byPlatform[v.Platform]++
	}
	counts := []domain.PlatformCount{}
	for p, n := range byPlatform {
		counts = append(counts, domain.PlatformCount{Platform: p, Count: n})
	}
	slices.SortFunc(counts, func(a, b domain.PlatformCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Platform, b.Platform)
	})
	return counts, nil
}
