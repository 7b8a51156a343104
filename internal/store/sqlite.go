// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides chat settings, whitelist and join persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS chat_settings (
			chat_id            INTEGER PRIMARY KEY,
			anti_links         INTEGER NOT NULL DEFAULT 1,
			flood_n            INTEGER NOT NULL DEFAULT 6,
			flood_window_sec   INTEGER NOT NULL DEFAULT 10,
			flood_mute_min     INTEGER NOT NULL DEFAULT 15,
			newbie_protect_min INTEGER NOT NULL DEFAULT 15,
			log_mode           TEXT NOT NULL DEFAULT 'here',

			CHECK (log_mode IN ('here', 'off')),
			CHECK (flood_n > 0),
			CHECK (flood_window_sec > 0),
			CHECK (flood_mute_min > 0),
			CHECK (newbie_protect_min >= 0)
		);

		CREATE TABLE IF NOT EXISTS whitelist (
			chat_id INTEGER NOT NULL,
			domain  TEXT NOT NULL,

			PRIMARY KEY (chat_id, domain)
		);

		CREATE INDEX IF NOT EXISTS idx_whitelist_chat ON whitelist(chat_id);

		CREATE TABLE IF NOT EXISTS joins (
			chat_id   INTEGER NOT NULL,
			user_id   INTEGER NOT NULL,
			joined_at INTEGER NOT NULL,

			PRIMARY KEY (chat_id, user_id)
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the underlying database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
