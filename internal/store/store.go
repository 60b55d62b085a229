// Package store persists the small amount of local state regchat keeps
// between runs: the durable session id and a log of finished quiz
// attempts for the stats command.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed local state.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at path, creating it and its
// parent directory if needed.
func Open(path string) (*Store, error) {
	if err := EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		session_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		missed INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_quiz_attempts_finished ON quiz_attempts(finished_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// SessionID returns the stored session id, or "" when none exists yet.
func (s *Store) SessionID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT session_id FROM session WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session id: %w", err)
	}
	return id, nil
}

// SetSessionID stores id as the single durable session id.
func (s *Store) SetSessionID(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, session_id, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET session_id = excluded.session_id, updated_at = excluded.updated_at`,
		id, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store session id: %w", err)
	}
	return nil
}

// ClearSessionID removes the stored session id.
func (s *Store) ClearSessionID(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session id: %w", err)
	}
	return nil
}

// AttemptRecord is one finished quiz run.
type AttemptRecord struct {
	ID         int64
	SessionID  string
	Subject    string
	Score      int
	Total      int
	Missed     int
	FinishedAt time.Time
}

// RecordAttempt appends a finished quiz run to the log.
func (s *Store) RecordAttempt(ctx context.Context, rec AttemptRecord) error {
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_attempts (session_id, subject, score, total, missed, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Subject, rec.Score, rec.Total, rec.Missed, finished.Unix())
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// Attempts returns finished quiz runs, most recent first. limit <= 0
// returns all of them.
func (s *Store) Attempts(ctx context.Context, limit int) ([]AttemptRecord, error) {
	q := `SELECT id, session_id, subject, score, total, missed, finished_at
	      FROM quiz_attempts ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		var finished int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Subject, &rec.Score, &rec.Total, &rec.Missed, &finished); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.FinishedAt = time.Unix(finished, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. REGCHAT_DB environment variable
// 2. $XDG_DATA_HOME/regchat/regchat.db
// 3. ~/.local/share/regchat/regchat.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("REGCHAT_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "regchat", "regchat.db"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
