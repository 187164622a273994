package store

import (
	"database/sql"
	"fmt"
)

// migration is one versioned, forward-only step in the schema. Each is
// applied inside its own transaction; schema_version records the
// highest version successfully committed.
type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS xtream_channel_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				category_id TEXT NOT NULL,
				category_name TEXT NOT NULL,
				parent_id TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, category_id)
			)`,
			`CREATE TABLE IF NOT EXISTS xtream_movie_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				category_id TEXT NOT NULL,
				category_name TEXT NOT NULL,
				parent_id TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, category_id)
			)`,
			`CREATE TABLE IF NOT EXISTS xtream_series_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				category_id TEXT NOT NULL,
				category_name TEXT NOT NULL,
				parent_id TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, category_id)
			)`,
			`CREATE TABLE IF NOT EXISTS xtream_channels (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				stream_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				num INTEGER,
				stream_type TEXT,
				stream_icon TEXT,
				thumbnail TEXT,
				epg_channel_id TEXT,
				added TEXT,
				category_id TEXT,
				custom_sid TEXT,
				tv_archive INTEGER,
				direct_source TEXT,
				tv_archive_duration INTEGER,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, stream_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_channels_identity ON xtream_channels(identity)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_channels_category ON xtream_channels(identity, category_id)`,
			`CREATE TABLE IF NOT EXISTS xtream_movies (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				stream_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				title TEXT,
				year INTEGER,
				stream_type TEXT,
				stream_icon TEXT,
				rating REAL,
				rating_5based REAL,
				genre TEXT,
				added TEXT,
				episode_run_time TEXT,
				category_id TEXT,
				container_extension TEXT,
				custom_sid TEXT,
				direct_source TEXT,
				release_date TEXT,
				cast TEXT,
				director TEXT,
				plot TEXT,
				youtube_trailer TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, stream_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_movies_identity ON xtream_movies(identity)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_movies_category ON xtream_movies(identity, category_id)`,
			`CREATE TABLE IF NOT EXISTS xtream_series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				series_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				title TEXT,
				year INTEGER,
				cover TEXT,
				plot TEXT,
				cast TEXT,
				director TEXT,
				genre TEXT,
				release_date TEXT,
				last_modified TEXT,
				rating TEXT,
				rating_5based TEXT,
				episode_run_time TEXT,
				category_id TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, series_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_series_identity ON xtream_series(identity)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_series_category ON xtream_series(identity, category_id)`,
			`CREATE TABLE IF NOT EXISTS xtream_seasons (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				series_id INTEGER NOT NULL,
				season_number INTEGER NOT NULL,
				name TEXT,
				episode_count INTEGER,
				overview TEXT,
				air_date TEXT,
				cover TEXT,
				cover_big TEXT,
				vote_average REAL,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, series_id, season_number),
				FOREIGN KEY (identity, series_id) REFERENCES xtream_series(identity, series_id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_seasons_series ON xtream_seasons(identity, series_id)`,
			`CREATE TABLE IF NOT EXISTS xtream_episodes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				identity TEXT NOT NULL,
				series_id INTEGER NOT NULL,
				episode_id TEXT NOT NULL,
				season_number INTEGER,
				episode_num TEXT,
				title TEXT,
				container_extension TEXT,
				info TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(identity, series_id, episode_id),
				FOREIGN KEY (identity, series_id) REFERENCES xtream_series(identity, series_id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_xtream_episodes_series ON xtream_episodes(identity, series_id)`,
			`CREATE TABLE IF NOT EXISTS xtream_content_sync (
				identity TEXT PRIMARY KEY,
				status TEXT NOT NULL DEFAULT 'pending',
				progress INTEGER NOT NULL DEFAULT 0,
				last_sync_channels TIMESTAMP,
				last_sync_movies TIMESTAMP,
				last_sync_series TIMESTAMP,
				channels_synced INTEGER NOT NULL DEFAULT 0,
				movies_synced INTEGER NOT NULL DEFAULT 0,
				series_synced INTEGER NOT NULL DEFAULT 0,
				last_message TEXT,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS xtream_sync_settings (
				identity TEXT PRIMARY KEY,
				auto_sync_enabled INTEGER NOT NULL DEFAULT 0,
				sync_interval_hours INTEGER NOT NULL DEFAULT 24,
				wifi_only INTEGER NOT NULL DEFAULT 0,
				notify_on_complete INTEGER NOT NULL DEFAULT 1,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 2,
		up: []string{
			`CREATE VIRTUAL TABLE IF NOT EXISTS xtream_channels_fts USING fts5(name)`,
			`CREATE VIRTUAL TABLE IF NOT EXISTS xtream_movies_fts USING fts5(name, title, genre, cast, director, plot)`,
			`CREATE VIRTUAL TABLE IF NOT EXISTS xtream_series_fts USING fts5(name, title, genre, cast, director, plot)`,
		},
	},
}

// applyMigrations brings db up to the latest schema version, each step
// in its own transaction. schema_version has at most one row; absence
// of the table means version 0.
func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := currentVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyOne(db, m); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
	}
	return nil
}

func currentVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return v, nil
}

func applyOne(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.up {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
		return err
	}

	return tx.Commit()
}
