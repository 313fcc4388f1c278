// Package sessions persists session state to SQLite so delivery counts
// survive application restarts.
package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// Store persists session snapshots to SQLite.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// StoreConfig configures the session store.
type StoreConfig struct {
	Path string // Path to SQLite database file
}

// NewStore creates a session store backed by the given database file.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("session store path is required")
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: cfg.Path,
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id  TEXT PRIMARY KEY,
			started_at  TIMESTAMP NOT NULL,
			handled     INTEGER NOT NULL DEFAULT 0,
			unhandled   INTEGER NOT NULL DEFAULT 0,
			updated_at  TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Save persists a session snapshot, updating the row if the session exists.
func (s *Store) Save(ctx context.Context, snapshot unisen.SessionSnapshot) error {
	if snapshot.ID == "" {
		return fmt.Errorf("session snapshot has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Check whether the session is already stored
	var existingID string
	queryErr := s.db.QueryRowContext(ctx,
		"SELECT session_id FROM sessions WHERE session_id = ?",
		snapshot.ID,
	).Scan(&existingID)

	if queryErr == nil && existingID != "" {
		_, err := s.db.ExecContext(ctx, `
			UPDATE sessions SET
				handled = ?,
				unhandled = ?,
				updated_at = ?
			WHERE session_id = ?
		`,
			int64(snapshot.Handled),
			int64(snapshot.Unhandled),
			now,
			snapshot.ID,
		)
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, started_at, handled, unhandled, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		snapshot.ID,
		snapshot.StartedAt.UTC(),
		int64(snapshot.Handled),
		int64(snapshot.Unhandled),
		now,
	)

	return err
}

// Load retrieves a stored session by ID.
func (s *Store) Load(ctx context.Context, sessionID string) (unisen.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanSession(s.db.QueryRowContext(ctx,
		"SELECT session_id, started_at, handled, unhandled FROM sessions WHERE session_id = ?",
		sessionID,
	))
}

// Latest retrieves the most recently started session.
func (s *Store) Latest(ctx context.Context) (unisen.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.scanSession(s.db.QueryRowContext(ctx,
		"SELECT session_id, started_at, handled, unhandled FROM sessions ORDER BY started_at DESC LIMIT 1",
	))
}

func (s *Store) scanSession(row *sql.Row) (unisen.SessionSnapshot, error) {
	var snapshot unisen.SessionSnapshot
	var handled, unhandled int64

	err := row.Scan(&snapshot.ID, &snapshot.StartedAt, &handled, &unhandled)
	if err == sql.ErrNoRows {
		return unisen.SessionSnapshot{}, fmt.Errorf("session not found")
	}
	if err != nil {
		return unisen.SessionSnapshot{}, fmt.Errorf("scan failed: %w", err)
	}

	snapshot.Handled = uint64(handled)
	snapshot.Unhandled = uint64(unhandled)
	return snapshot, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Cleanup removes sessions started before the retention window.
func (s *Store) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE started_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup failed: %w", err)
	}

	return result.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
