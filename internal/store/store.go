package store

import (
	"context"
	"database/sql"
	"fmt"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// schema is applied on every Open; all statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS correct_answers (
		question_id TEXT PRIMARY KEY,
		answered_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence    INTEGER NOT NULL UNIQUE,
		session_id  TEXT NOT NULL,
		question_id TEXT NOT NULL,
		chosen      TEXT NOT NULL,
		correct     INTEGER NOT NULL,
		answered_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempts_session_id ON attempts (session_id)`,
	`CREATE INDEX IF NOT EXISTS attempts_question_id ON attempts (question_id)`,
}

// Store holds the SQLite connection and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ProgressRepo returns the correct-set repository backed by this store.
func (s *Store) ProgressRepo() *ProgressRepo {
	return &ProgressRepo{db: s.db}
}

// AttemptRepo returns the attempt log backed by this store.
func (s *Store) AttemptRepo() *AttemptRepo {
	return &AttemptRepo{db: s.db, seq: s.seq}
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
