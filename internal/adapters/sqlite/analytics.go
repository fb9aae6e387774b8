package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

const visitorColumns = `visitor_id, is_installed, platform, location_id, language,
	first_seen, last_seen, visit_count, ip, user_agent, screen_resolution, referrer`

// RecordVisit upserts the visitor and bumps the day's counters in one transaction
func (s *Store) RecordVisit(ctx context.Context, visit domain.Visit, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	profile, err := scanVisitor(tx.QueryRowContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE visitor_id = ?`, visit.VisitorID))
	isNew := errors.Is(err, ports.ErrNotFound)
	switch {
	case isNew:
		profile = domain.NewVisitor(visit, at)
	case err != nil:
		return false, fmt.Errorf("loading visitor: %w", err)
	default:
		profile.Apply(visit, at)
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO visitors (`+visitorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.VisitorID, profile.IsInstalled, profile.Platform, profile.LocationID, profile.Language,
		profile.FirstSeen.UnixMilli(), profile.LastSeen.UnixMilli(), profile.VisitCount,
		profile.IP, profile.UserAgent, profile.ScreenResolution, profile.Referrer)
	if err != nil {
		return false, fmt.Errorf("saving visitor: %w", err)
	}

	var day domain.DailyStat
	day.Count(visit, isNew)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_stats (date, total_hits, unique_visitors, new_users, install_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_hits = total_hits + excluded.total_hits,
			unique_visitors = unique_visitors + excluded.unique_visitors,
			new_users = new_users + excluded.new_users,
			install_count = install_count + excluded.install_count
	`, domain.StatDate(at), day.TotalHits, day.UniqueVisitors, day.NewUsers, day.InstallCount)
	if err != nil {
		return false, fmt.Errorf("counting visit: %w", err)
	}

	return isNew, tx.Commit()
}

// DailyStats returns the counters from since onwards in date order
func (s *Store) DailyStats(ctx context.Context, since string) ([]domain.DailyStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total_hits, unique_visitors, new_users, install_count
		FROM daily_stats
		WHERE date >= ?
		ORDER BY date
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []domain.DailyStat{}
	for rows.Next() {
		var d domain.DailyStat
		if err := rows.Scan(&d.Date, &d.TotalHits, &d.UniqueVisitors, &d.NewUsers, &d.InstallCount); err != nil {
			return nil, err
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}

// Visitors returns a page of visitors, most recently seen first
func (s *Store) Visitors(ctx context.Context, f ports.VisitorFilter) ([]domain.Visitor, int, error) {
	where := `WHERE last_seen >= ?`
	args := []any{int64(0)}
	if !f.Since.IsZero() {
		args[0] = f.Since.UnixMilli()
	}
	if f.InstalledOnly {
		where += ` AND is_installed = 1`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 {
		return nil, total, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+visitorColumns+` FROM visitors `+where+`
		ORDER BY last_seen DESC, visitor_id
		LIMIT ? OFFSET ?`, append(args, f.Limit, max(f.Offset, 0))...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	visitors := []domain.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, 0, err
		}
		visitors = append(visitors, v)
	}
	return visitors, total, rows.Err()
}

// Visitor returns one profile
func (s *Store) Visitor(ctx context.Context, visitorID string) (domain.Visitor, error) {
	return scanVisitor(s.db.QueryRowContext(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE visitor_id = ?`, visitorID))
}

// Platforms counts visitors per platform
func (s *Store) Platforms(ctx context.Context) ([]domain.PlatformCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*) AS n FROM visitors
		GROUP BY platform
		ORDER BY n DESC, platform
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.PlatformCount{}
	for rows.Next() {
		var c domain.PlatformCount
		if err := rows.Scan(&c.Platform, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisitor(row rowScanner) (domain.Visitor, error) {
	var (
		v                   domain.Visitor
		firstSeen, lastSeen int64
	)
	err := row.Scan(&v.VisitorID, &v.IsInstalled, &v.Platform, &v.LocationID, &v.Language,
		&firstSeen, &lastSeen, &v.VisitCount, &v.IP, &v.UserAgent, &v.ScreenResolution, &v.Referrer)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Visitor{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Visitor{}, err
	}
	v.FirstSeen = time.UnixMilli(firstSeen).UTC()
	v.LastSeen = time.UnixMilli(lastSeen).UTC()
	return v, nil
}
