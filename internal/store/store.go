// Package store owns the single SQLite connection backing the content
// cache: schema application, per-identity lifecycle, and maintenance.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is the serialized connection to the content-cache database.
// All reads and writes funnel through it; see internal/syncengine for
// why queries never hold it across a suspension point.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex
}

// Open opens or creates the database at the default config location.
func Open() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("store: resolve config dir: %w", err)
	}
	return OpenPath(filepath.Join(configDir, "xtreamcached", "content.db"))
}

// OpenPath opens or creates the database at an explicit path, applying
// every pending migration before returning.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate database: %w", err)
	}
	return s, nil
}

// OpenInMemory opens a throwaway shared-cache in-memory database, used
// by tests that need a real SQLite engine without touching disk.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_cache=shared&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping in-memory database: %w", err)
	}

	s := &Store{db: db, path: ":memory:"}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate in-memory database: %w", err)
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path (or ":memory:") backing the store.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying *sql.DB to the repository package.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Lock/RLock expose the store's mutex so the repository package can
// serialize writes while allowing concurrent reads, per the single
// mutable resource model: every operation acquires briefly and releases
// before any suspension point (HTTP fetches happen outside the lock).
func (s *Store) Lock()    { s.mu.Lock() }
func (s *Store) Unlock()  { s.mu.Unlock() }
func (s *Store) RLock()   { s.mu.RLock() }
func (s *Store) RUnlock() { s.mu.RUnlock() }

func (s *Store) migrate() error {
	return applyMigrations(s.db)
}

// InitializeIdentity inserts default sync-status and sync-settings rows
// for identity if they do not already exist. Idempotent.
func (s *Store) InitializeIdentity(identity string) error {
	if identity == "" {
		return NewValidationError("identity", "must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return WrapDBError("initialize identity: begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR IGNORE INTO xtream_content_sync
			(identity, status, progress, channels_synced, movies_synced, series_synced)
		VALUES (?, 'pending', 0, 0, 0, 0)
	`, identity); err != nil {
		return WrapDBError("initialize identity: status", err)
	}

	if _, err := tx.Exec(`
		INSERT OR IGNORE INTO xtream_sync_settings
			(identity, auto_sync_enabled, sync_interval_hours, wifi_only, notify_on_complete)
		VALUES (?, 0, 24, 0, 1)
	`, identity); err != nil {
		return WrapDBError("initialize identity: settings", err)
	}

	if err := tx.Commit(); err != nil {
		return WrapDBError("initialize identity: commit", err)
	}
	return nil
}

// ClearIdentity atomically deletes every content, category, season and
// episode row owned by identity and resets its status row to pending,
// while leaving sync settings untouched.
func (s *Store) ClearIdentity(identity string) error {
	if identity == "" {
		return NewValidationError("identity", "must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return WrapDBError("clear identity: begin", err)
	}
	defer tx.Rollback()

	tables := []string{
		"xtream_episodes", "xtream_seasons", "xtream_series",
		"xtream_movies", "xtream_channels",
		"xtream_channel_categories", "xtream_movie_categories", "xtream_series_categories",
	}
	for _, t := range tables {
		if _, err := tx.Exec(`DELETE FROM `+t+` WHERE identity = ?`, identity); err != nil {
			return WrapDBError("clear identity: delete "+t, err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE xtream_content_sync
		SET status = 'pending', progress = 0,
		    channels_synced = 0, movies_synced = 0, series_synced = 0,
		    last_sync_channels = NULL, last_sync_movies = NULL, last_sync_series = NULL,
		    last_message = NULL
		WHERE identity = ?
	`, identity); err != nil {
		return WrapDBError("clear identity: reset status", err)
	}

	if err := RebuildFTSTx(tx, identity); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return WrapDBError("clear identity: commit", err)
	}
	return nil
}
