// Package sqlite persists session stats and the trade journal. Stats
// survive restarts and are rehydrated into the engine at startup; the
// journal is append-only.
package sqlite

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a single SQLite database with WAL mode enabled.
type Store struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Open creates (if needed) and opens the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer; the game server is the only client.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", dbPath)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_stats (
			player       TEXT    NOT NULL PRIMARY KEY,
			data         TEXT    NOT NULL,
			updated_at   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS trade_journal (
			id         TEXT    NOT NULL PRIMARY KEY,
			session_id TEXT    NOT NULL,
			ticker     TEXT    NOT NULL,
			type       TEXT    NOT NULL,
			bar_index  INTEGER NOT NULL,
			price      REAL    NOT NULL,
			shares     REAL    NOT NULL,
			at         INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_journal_session
			ON trade_journal (session_id, at);
	`)
	return err
}
