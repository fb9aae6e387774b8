package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rozadaar/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "2"

// Store implements ports.StateStore, ports.RecordStore and
// ports.AnalyticsStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements the store ports
var (
	_ ports.StateStore     = (*Store)(nil)
	_ ports.RecordStore    = (*Store)(nil)
	_ ports.AnalyticsStore = (*Store)(nil)
)

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*Store, error) {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			body TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_records_position ON records(collection, position);

		CREATE TABLE IF NOT EXISTS visitors (
			visitor_id TEXT PRIMARY KEY,
			is_installed INTEGER NOT NULL,
			platform TEXT NOT NULL,
			location_id TEXT NOT NULL,
			language TEXT NOT NULL,
			first_seen INTEGER NOT NULL,
			last_seen INTEGER NOT NULL,
			visit_count INTEGER NOT NULL,
			ip TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			screen_resolution TEXT NOT NULL,
			referrer TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_visitors_last_seen ON visitors(last_seen DESC);
		CREATE TABLE IF NOT EXISTS daily_stats (
			date TEXT PRIMARY KEY,
			total_hits INTEGER NOT NULL DEFAULT 0,
			unique_visitors INTEGER NOT NULL DEFAULT 0,
			new_users INTEGER NOT NULL DEFAULT 0,
			install_count INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns a meta value
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put stores a meta value
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, string(value))
	return err
}

// Delete removes a meta value
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM meta WHERE key = ?`, key)
	return err
}

// List returns the records of a collection in submission order
func (s *Store) List(ctx context.Context, collection string) ([]ports.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, body FROM records
		WHERE collection = ?
		ORDER BY position, id
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ports.Record{}
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		records = append(records, ports.Record{ID: id, Body: []byte(body)})
	}
	return records, rows.Err()
}

// BeginTx starts a transaction over the records table
func (s *Store) BeginTx(ctx context.Context) (ports.RecordTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &recordTx{tx: tx, now: time.Now().Unix()}, nil
}
