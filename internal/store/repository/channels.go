package repository

import (
	"database/sql"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// SaveChannels upserts rows keyed by (identity, stream_id) inside one
// transaction, then rebuilds the FTS index and advances the status
// row's channel count and last_sync_channels timestamp. Empty input is
// a no-op that returns 0.
func (r *Repository) SaveChannels(identity string, channels []store.Channel) (int, error) {
	if len(channels) == 0 {
		return 0, nil
	}
	if identity == "" {
		return 0, store.NewValidationError("identity", "must not be empty")
	}
	for _, c := range channels {
		if c.StreamID <= 0 {
			return 0, store.NewValidationError("stream_id", "must be positive")
		}
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("save channels: begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO xtream_channels
			(identity, stream_id, name, num, stream_type, stream_icon, thumbnail,
			 epg_channel_id, added, category_id, custom_sid, tv_archive,
			 direct_source, tv_archive_duration, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, stream_id) DO UPDATE SET
			name = excluded.name,
			num = excluded.num,
			stream_type = excluded.stream_type,
			stream_icon = excluded.stream_icon,
			thumbnail = excluded.thumbnail,
			epg_channel_id = excluded.epg_channel_id,
			added = excluded.added,
			category_id = excluded.category_id,
			custom_sid = excluded.custom_sid,
			tv_archive = excluded.tv_archive,
			direct_source = excluded.direct_source,
			tv_archive_duration = excluded.tv_archive_duration,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, store.WrapDBError("save channels: prepare", err)
	}
	defer stmt.Close()

	for _, c := range channels {
		if _, err := stmt.Exec(identity, c.StreamID, c.Name, c.Num, c.StreamType, c.StreamIcon,
			c.Thumbnail, c.EPGChannelID, c.Added, c.CategoryID, c.CustomSID, c.TVArchive,
			c.DirectSource, c.TVArchiveDuration); err != nil {
			return 0, store.WrapDBError("save channels: upsert", err)
		}
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM xtream_channels WHERE identity = ?`, identity).Scan(&count); err != nil {
		return 0, store.WrapDBError("save channels: count", err)
	}

	if _, err := tx.Exec(`
		UPDATE xtream_content_sync SET channels_synced = ?, last_sync_channels = CURRENT_TIMESTAMP WHERE identity = ?
	`, count, identity); err != nil {
		return 0, store.WrapDBError("save channels: update status", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("save channels: commit", err)
	}
	return len(channels), nil
}

// GetChannels returns rows for identity matching f, ordered by
// name COLLATE NOCASE ascending. An empty f.NameContains lists all rows.
func (r *Repository) GetChannels(identity string, f store.Filter) ([]store.Channel, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, true, false)
	limit, limitArgs := limitOffsetClause(f)
	args = append(args, limitArgs...)

	query := `
		SELECT stream_id, name, num, stream_type, stream_icon, thumbnail,
		       epg_channel_id, added, category_id, custom_sid, tv_archive,
		       direct_source, tv_archive_duration, updated_at
		FROM xtream_channels WHERE ` + where + ` ORDER BY name COLLATE NOCASE ASC` + limit

	rows, err := r.store.DB().Query(query, args...)
	if err != nil {
		return nil, store.WrapDBError("get channels", err)
	}
	defer rows.Close()

	return scanChannels(rows)
}

// SearchChannels computes relevance as in spec §4.2: 0 exact match,
// 1 starts-with, 2 contains, 3 otherwise (channels have no other
// searchable field). Empty query degrades to GetChannels.
func (r *Repository) SearchChannels(identity, query string, f store.Filter) ([]store.Channel, error) {
	if query == "" {
		return r.GetChannels(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "search_channels", started, 100)

	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, true, false)
	exact := query
	startsWith := store.SanitizeLikePattern(query) + "%"
	contains := "%" + store.SanitizeLikePattern(query) + "%"

	limit, limitArgs := limitOffsetClause(f)

	sqlQuery := `
		SELECT stream_id, name, num, stream_type, stream_icon, thumbnail,
		       epg_channel_id, added, category_id, custom_sid, tv_archive,
		       direct_source, tv_archive_duration, updated_at,
		       CASE
		         WHEN LOWER(name) = LOWER(?) THEN 0
		         WHEN name LIKE ? ESCAPE '\' THEN 1
		         WHEN name LIKE ? ESCAPE '\' THEN 2
		         ELSE 3
		       END AS relevance
		FROM xtream_channels WHERE ` + where + ` AND name LIKE ? ESCAPE '\'
		ORDER BY relevance ASC, name COLLATE NOCASE ASC` + limit

	allArgs := append([]any{exact, startsWith, contains}, args...)
	allArgs = append(allArgs, contains)
	allArgs = append(allArgs, limitArgs...)

	rows, err := r.store.DB().Query(sqlQuery, allArgs...)
	if err != nil {
		return nil, store.WrapDBError("search channels", err)
	}
	defer rows.Close()

	var out []store.Channel
	for rows.Next() {
		var c store.Channel
		var relevance int
		if err := scanChannelRowWithRelevance(rows, &c, &relevance); err != nil {
			return nil, store.WrapDBError("search channels: scan", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FTSSearchChannels uses the channels FTS virtual table, ordered by
// the engine's own rank. Empty sanitized query degrades to GetChannels.
// Results are capped at 1000 when f.Limit is unset.
func (r *Repository) FTSSearchChannels(identity, query string, f store.Filter) ([]store.Channel, error) {
	sanitized := store.SanitizeFTSQuery(query)
	if sanitized == "" {
		return r.GetChannels(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "fts_search_channels", started, 150)

	r.store.RLock()
	defer r.store.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.store.DB().Query(`
		SELECT c.stream_id, c.name, c.num, c.stream_type, c.stream_icon, c.thumbnail,
		       c.epg_channel_id, c.added, c.category_id, c.custom_sid, c.tv_archive,
		       c.direct_source, c.tv_archive_duration, c.updated_at
		FROM xtream_channels c
		INNER JOIN xtream_channels_fts fts ON fts.rowid = c.id
		WHERE c.identity = ? AND xtream_channels_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, identity, sanitized, limit)
	if err != nil {
		return nil, store.WrapDBError("fts search channels", err)
	}
	defer rows.Close()

	return scanChannels(rows)
}

// CountChannels returns the number of rows for identity matching f.
func (r *Repository) CountChannels(identity string, f store.Filter) (int, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, true, false)
	var count int
	err := r.store.DB().QueryRow(`SELECT COUNT(*) FROM xtream_channels WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, store.WrapDBError("count channels", err)
	}
	return count, nil
}

// DeleteChannels deletes rows for identity. ids == nil deletes every
// row; an empty non-nil slice is a no-op returning 0.
func (r *Repository) DeleteChannels(identity string, ids []int) (int, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("delete channels: begin", err)
	}
	defer tx.Rollback()

	var res sql.Result
	if ids == nil {
		res, err = tx.Exec(`DELETE FROM xtream_channels WHERE identity = ?`, identity)
	} else {
		placeholders, args := inClause(identity, ids)
		res, err = tx.Exec(`DELETE FROM xtream_channels WHERE identity = ? AND stream_id IN (`+placeholders+`)`, args...)
	}
	if err != nil {
		return 0, store.WrapDBError("delete channels", err)
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("delete channels: commit", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// GetChannelIDs returns the set of stream_ids cached for identity, used
// by incremental sync to diff against the server's current list.
func (r *Repository) GetChannelIDs(identity string) (map[int]struct{}, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	rows, err := r.store.DB().Query(`SELECT stream_id FROM xtream_channels WHERE identity = ?`, identity)
	if err != nil {
		return nil, store.WrapDBError("get channel ids", err)
	}
	defer rows.Close()

	ids := map[int]struct{}{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, store.WrapDBError("get channel ids: scan", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func inClause(identity string, ids []int) (string, []any) {
	placeholders := ""
	args := []any{identity}
	for i, id := range ids {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, id)
	}
	return placeholders, args
}

func scanChannels(rows *sql.Rows) ([]store.Channel, error) {
	var out []store.Channel
	for rows.Next() {
		var c store.Channel
		if err := scanChannelRow(rows, &c); err != nil {
			return nil, store.WrapDBError("scan channel", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanChannelRow(rows *sql.Rows, c *store.Channel) error {
	return rows.Scan(&c.StreamID, &c.Name, &c.Num, &c.StreamType, &c.StreamIcon, &c.Thumbnail,
		&c.EPGChannelID, &c.Added, &c.CategoryID, &c.CustomSID, &c.TVArchive,
		&c.DirectSource, &c.TVArchiveDuration, &c.UpdatedAt)
}

func scanChannelRowWithRelevance(rows *sql.Rows, c *store.Channel, relevance *int) error {
	return rows.Scan(&c.StreamID, &c.Name, &c.Num, &c.StreamType, &c.StreamIcon, &c.Thumbnail,
		&c.EPGChannelID, &c.Added, &c.CategoryID, &c.CustomSID, &c.TVArchive,
		&c.DirectSource, &c.TVArchiveDuration, &c.UpdatedAt, relevance)
}
