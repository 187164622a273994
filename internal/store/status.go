package store

import (
	"database/sql"
	"time"
)

// GetSyncStatus returns identity's status row, or zero-value defaults
// (pending, progress 0) if no row exists yet.
func (s *Store) GetSyncStatus(identity string) (*SyncStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT identity, status, progress,
		       last_sync_channels, last_sync_movies, last_sync_series,
		       channels_synced, movies_synced, series_synced, last_message
		FROM xtream_content_sync WHERE identity = ?
	`, identity)

	st := &SyncStatus{}
	var lastChannels, lastMovies, lastSeries sql.NullTime
	var lastMessage sql.NullString

	err := row.Scan(&st.Identity, &st.Status, &st.Progress,
		&lastChannels, &lastMovies, &lastSeries,
		&st.ChannelsSynced, &st.MoviesSynced, &st.SeriesSynced, &lastMessage)
	if err == sql.ErrNoRows {
		return &SyncStatus{Identity: identity, Status: "pending", Progress: 0}, nil
	}
	if err != nil {
		return nil, WrapDBError("get sync status", err)
	}

	if lastChannels.Valid {
		st.LastSyncChannels = &lastChannels.Time
	}
	if lastMovies.Valid {
		st.LastSyncMovies = &lastMovies.Time
	}
	if lastSeries.Valid {
		st.LastSyncSeries = &lastSeries.Time
	}
	if lastMessage.Valid {
		st.LastMessage = &lastMessage.String
	}
	return st, nil
}

// UpdateSyncStatus upserts identity's status row, clamping progress to
// the 0..100 range per spec.
func (s *Store) UpdateSyncStatus(st *SyncStatus) error {
	if st.Identity == "" {
		return NewValidationError("identity", "must not be empty")
	}
	progress := st.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO xtream_content_sync
			(identity, status, progress, channels_synced, movies_synced, series_synced, last_message, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			channels_synced = excluded.channels_synced,
			movies_synced = excluded.movies_synced,
			series_synced = excluded.series_synced,
			last_message = excluded.last_message,
			updated_at = CURRENT_TIMESTAMP
	`, st.Identity, st.Status, progress, st.ChannelsSynced, st.MoviesSynced, st.SeriesSynced, nullableString(st.LastMessage))
	if err != nil {
		return WrapDBError("update sync status", err)
	}
	return nil
}

// UpdateLastSyncTimestamp sets only the named family's timestamp to
// now. family must be one of "channels", "movies", "series".
func (s *Store) UpdateLastSyncTimestamp(identity, family string) error {
	col, ok := familyTimestampColumn(family)
	if !ok {
		return NewValidationError("family", "must be channels, movies, or series")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE xtream_content_sync SET `+col+` = ? WHERE identity = ?`, time.Now(), identity)
	if err != nil {
		return WrapDBError("update last sync timestamp", err)
	}
	return nil
}

func familyTimestampColumn(family string) (string, bool) {
	switch family {
	case "channels":
		return "last_sync_channels", true
	case "movies":
		return "last_sync_movies", true
	case "series":
		return "last_sync_series", true
	default:
		return "", false
	}
}

// GetSyncSettings returns identity's settings row, or defaults
// (auto-sync disabled, 24h interval) if no row exists yet.
func (s *Store) GetSyncSettings(identity string) (*SyncSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT identity, auto_sync_enabled, sync_interval_hours, wifi_only, notify_on_complete
		FROM xtream_sync_settings WHERE identity = ?
	`, identity)

	var auto, wifi, notify int
	set := &SyncSettings{}
	err := row.Scan(&set.Identity, &auto, &set.SyncIntervalHours, &wifi, &notify)
	if err == sql.ErrNoRows {
		return &SyncSettings{Identity: identity, AutoSyncEnabled: false, SyncIntervalHours: 24, NotifyOnComplete: true}, nil
	}
	if err != nil {
		return nil, WrapDBError("get sync settings", err)
	}
	set.AutoSyncEnabled = auto != 0
	set.WifiOnly = wifi != 0
	set.NotifyOnComplete = notify != 0
	return set, nil
}

// UpdateSyncSettings validates sync_interval_hours >= 6 and upserts the
// settings row; on validation failure prior settings are unchanged.
func (s *Store) UpdateSyncSettings(set *SyncSettings) error {
	if set.Identity == "" {
		return NewValidationError("identity", "must not be empty")
	}
	if set.SyncIntervalHours < 6 {
		return NewValidationError("sync_interval_hours", "must be at least 6")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO xtream_sync_settings
			(identity, auto_sync_enabled, sync_interval_hours, wifi_only, notify_on_complete, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			auto_sync_enabled = excluded.auto_sync_enabled,
			sync_interval_hours = excluded.sync_interval_hours,
			wifi_only = excluded.wifi_only,
			notify_on_complete = excluded.notify_on_complete,
			updated_at = CURRENT_TIMESTAMP
	`, set.Identity, boolToInt(set.AutoSyncEnabled), set.SyncIntervalHours, boolToInt(set.WifiOnly), boolToInt(set.NotifyOnComplete))
	if err != nil {
		return WrapDBError("update sync settings", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
