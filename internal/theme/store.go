// Package theme persists the dark-mode preference in SQLite.
package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const darkModeKey = "dark_mode"

// Store wraps the preferences database.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("theme: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("theme: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("theme: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// DarkMode reports the stored preference; false when never written.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	var v string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, darkModeKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("theme: read: %w", err)
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("theme: corrupt value %q: %w", v, err)
	}
	return on, nil
}

// SetDarkMode stores the preference. The last write wins.
func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, darkModeKey, strconv.FormatBool(on), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("theme: write: %w", err)
	}
	return nil
}

// Toggle flips the preference and returns the new value.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("theme: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var (
		v       string
		current bool
	)
	err = tx.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, darkModeKey).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("theme: read: %w", err)
	default:
		if current, err = strconv.ParseBool(v); err != nil {
			return false, fmt.Errorf("theme: corrupt value %q: %w", v, err)
		}
	}
	next := !current

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, darkModeKey, strconv.FormatBool(next), time.Now().UTC()); err != nil {
		return false, fmt.Errorf("theme: write: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("theme: commit: %w", err)
	}
	return next, nil
}
