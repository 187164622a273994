package repository

import (
	"database/sql"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// SaveSeries upserts series rows keyed by (identity, series_id). It
// does not touch seasons or episodes; see SaveSeriesDetails for that.
func (r *Repository) SaveSeries(identity string, series []store.Series) (int, error) {
	if len(series) == 0 {
		return 0, nil
	}
	if identity == "" {
		return 0, store.NewValidationError("identity", "must not be empty")
	}
	for _, s := range series {
		if s.SeriesID <= 0 {
			return 0, store.NewValidationError("series_id", "must be positive")
		}
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("save series: begin", err)
	}
	defer tx.Rollback()

	if err := upsertSeriesRows(tx, identity, series); err != nil {
		return 0, err
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM xtream_series WHERE identity = ?`, identity).Scan(&count); err != nil {
		return 0, store.WrapDBError("save series: count", err)
	}
	if _, err := tx.Exec(`
		UPDATE xtream_content_sync SET series_synced = ?, last_sync_series = CURRENT_TIMESTAMP WHERE identity = ?
	`, count, identity); err != nil {
		return 0, store.WrapDBError("save series: update status", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("save series: commit", err)
	}
	return len(series), nil
}

func upsertSeriesRows(tx *sql.Tx, identity string, series []store.Series) error {
	stmt, err := tx.Prepare(`
		INSERT INTO xtream_series
			(identity, series_id, name, title, year, cover, plot, cast, director, genre,
			 release_date, last_modified, rating, rating_5based, episode_run_time, category_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, series_id) DO UPDATE SET
			name = excluded.name, title = excluded.title, year = excluded.year, cover = excluded.cover,
			plot = excluded.plot, cast = excluded.cast, director = excluded.director, genre = excluded.genre,
			release_date = excluded.release_date, last_modified = excluded.last_modified,
			rating = excluded.rating, rating_5based = excluded.rating_5based,
			episode_run_time = excluded.episode_run_time, category_id = excluded.category_id,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return store.WrapDBError("save series: prepare", err)
	}
	defer stmt.Close()

	for _, s := range series {
		if _, err := stmt.Exec(identity, s.SeriesID, s.Name, s.Title, s.Year, s.Cover, s.Plot, s.Cast,
			s.Director, s.Genre, s.ReleaseDate, s.LastModified, s.Rating, s.Rating5Based,
			s.EpisodeRunTime, s.CategoryID); err != nil {
			return store.WrapDBError("save series: upsert", err)
		}
	}
	return nil
}

// SaveSeriesDetails upserts a series row, then every season, then every
// episode, all in one transaction; any failure rolls back the whole
// detail set.
func (r *Repository) SaveSeriesDetails(identity string, details store.SeriesDetails) error {
	if identity == "" {
		return store.NewValidationError("identity", "must not be empty")
	}
	if details.Series.SeriesID <= 0 {
		return store.NewValidationError("series_id", "must be positive")
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return store.WrapDBError("save series details: begin", err)
	}
	defer tx.Rollback()

	if err := upsertSeriesRows(tx, identity, []store.Series{details.Series}); err != nil {
		return err
	}

	seasonStmt, err := tx.Prepare(`
		INSERT INTO xtream_seasons
			(identity, series_id, season_number, name, episode_count, overview, air_date, cover, cover_big, vote_average, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, series_id, season_number) DO UPDATE SET
			name = excluded.name, episode_count = excluded.episode_count, overview = excluded.overview,
			air_date = excluded.air_date, cover = excluded.cover, cover_big = excluded.cover_big,
			vote_average = excluded.vote_average, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return store.WrapDBError("save series details: prepare seasons", err)
	}
	defer seasonStmt.Close()

	for _, se := range details.Seasons {
		if _, err := seasonStmt.Exec(identity, details.Series.SeriesID, se.SeasonNumber, se.Name,
			se.EpisodeCount, se.Overview, se.AirDate, se.Cover, se.CoverBig, se.VoteAverage); err != nil {
			return store.WrapDBError("save series details: upsert season", err)
		}
	}

	episodeStmt, err := tx.Prepare(`
		INSERT INTO xtream_episodes
			(identity, series_id, episode_id, season_number, episode_num, title, container_extension, info, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, series_id, episode_id) DO UPDATE SET
			season_number = excluded.season_number, episode_num = excluded.episode_num,
			title = excluded.title, container_extension = excluded.container_extension,
			info = excluded.info, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return store.WrapDBError("save series details: prepare episodes", err)
	}
	defer episodeStmt.Close()

	for _, ep := range details.Episodes {
		if _, err := episodeStmt.Exec(identity, details.Series.SeriesID, ep.EpisodeID, ep.SeasonNumber,
			ep.EpisodeNum, ep.Title, ep.ContainerExtension, ep.Info); err != nil {
			return store.WrapDBError("save series details: upsert episode", err)
		}
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return store.WrapDBError("save series details: commit", err)
	}
	return nil
}

// GetSeriesDetails returns a series bundled with its seasons (sorted by
// season_number) and episodes (sorted by season_number, then numeric
// episode_num). Returns store.ErrNotFound if no series row exists.
func (r *Repository) GetSeriesDetails(identity string, seriesID int) (*store.SeriesDetails, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	var s store.Series
	row := r.store.DB().QueryRow(`
		SELECT series_id, name, title, year, cover, plot, "cast", director, genre,
		       release_date, last_modified, rating, rating_5based, episode_run_time, category_id, updated_at
		FROM xtream_series WHERE identity = ? AND series_id = ?
	`, identity, seriesID)
	if err := scanSeriesRow(row, &s); err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	} else if err != nil {
		return nil, store.WrapDBError("get series details: series", err)
	}

	seasonRows, err := r.store.DB().Query(`
		SELECT series_id, season_number, name, episode_count, overview, air_date, cover, cover_big, vote_average
		FROM xtream_seasons WHERE identity = ? AND series_id = ? ORDER BY season_number ASC
	`, identity, seriesID)
	if err != nil {
		return nil, store.WrapDBError("get series details: seasons", err)
	}
	defer seasonRows.Close()

	var seasons []store.Season
	for seasonRows.Next() {
		var se store.Season
		if err := seasonRows.Scan(&se.SeriesID, &se.SeasonNumber, &se.Name, &se.EpisodeCount,
			&se.Overview, &se.AirDate, &se.Cover, &se.CoverBig, &se.VoteAverage); err != nil {
			return nil, store.WrapDBError("get series details: scan season", err)
		}
		seasons = append(seasons, se)
	}

	episodeRows, err := r.store.DB().Query(`
		SELECT series_id, episode_id, season_number, episode_num, title, container_extension, info
		FROM xtream_episodes WHERE identity = ? AND series_id = ?
		ORDER BY season_number ASC, CAST(episode_num AS INTEGER) ASC
	`, identity, seriesID)
	if err != nil {
		return nil, store.WrapDBError("get series details: episodes", err)
	}
	defer episodeRows.Close()

	var episodes []store.Episode
	for episodeRows.Next() {
		var ep store.Episode
		if err := episodeRows.Scan(&ep.SeriesID, &ep.EpisodeID, &ep.SeasonNumber, &ep.EpisodeNum,
			&ep.Title, &ep.ContainerExtension, &ep.Info); err != nil {
			return nil, store.WrapDBError("get series details: scan episode", err)
		}
		episodes = append(episodes, ep)
	}

	return &store.SeriesDetails{Series: s, Seasons: seasons, Episodes: episodes}, nil
}

// GetSeries returns series rows for identity matching f.
func (r *Repository) GetSeries(identity string, f store.Filter) ([]store.Series, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, true)
	limit, limitArgs := limitOffsetClause(f)
	args = append(args, limitArgs...)

	query := `
		SELECT series_id, name, title, year, cover, plot, "cast", director, genre,
		       release_date, last_modified, rating, rating_5based, episode_run_time, category_id, updated_at
		FROM xtream_series WHERE ` + where + ` ORDER BY name COLLATE NOCASE ASC` + limit

	rows, err := r.store.DB().Query(query, args...)
	if err != nil {
		return nil, store.WrapDBError("get series", err)
	}
	defer rows.Close()

	var out []store.Series
	for rows.Next() {
		var s store.Series
		if err := scanSeriesRow(rows, &s); err != nil {
			return nil, store.WrapDBError("get series: scan", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SearchSeries ranks name/title/cast/director/genre/plot matches into the
// same four tiers as movies; empty query degrades to GetSeries.
func (r *Repository) SearchSeries(identity, query string, f store.Filter) ([]store.Series, error) {
	if query == "" {
		return r.GetSeries(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "search_series", started, 100)

	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, true)
	exact := query
	startsWith := store.SanitizeLikePattern(query) + "%"
	contains := "%" + store.SanitizeLikePattern(query) + "%"
	limit, limitArgs := limitOffsetClause(f)

	sqlQuery := `
		SELECT series_id, name, title, year, cover, plot, "cast", director, genre,
		       release_date, last_modified, rating, rating_5based, episode_run_time, category_id, updated_at,
		       CASE
		         WHEN LOWER(name) = LOWER(?) THEN 0
		         WHEN name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\') THEN 1
		         WHEN name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\')
		              OR ("cast" IS NOT NULL AND "cast" LIKE ? ESCAPE '\')
		              OR (director IS NOT NULL AND director LIKE ? ESCAPE '\')
		              OR (genre IS NOT NULL AND genre LIKE ? ESCAPE '\')
		              OR (plot IS NOT NULL AND plot LIKE ? ESCAPE '\') THEN 2
		         ELSE 3
		       END AS relevance
		FROM xtream_series WHERE ` + where + `
		AND (name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\')
		     OR ("cast" IS NOT NULL AND "cast" LIKE ? ESCAPE '\')
		     OR (director IS NOT NULL AND director LIKE ? ESCAPE '\')
		     OR (genre IS NOT NULL AND genre LIKE ? ESCAPE '\')
		     OR (plot IS NOT NULL AND plot LIKE ? ESCAPE '\'))
		ORDER BY relevance ASC, name COLLATE NOCASE ASC` + limit

	allArgs := append([]any{exact, startsWith, startsWith, contains, contains, contains, contains, contains, contains}, args...)
	allArgs = append(allArgs, contains, contains, contains, contains, contains, contains)
	allArgs = append(allArgs, limitArgs...)

	rows, err := r.store.DB().Query(sqlQuery, allArgs...)
	if err != nil {
		return nil, store.WrapDBError("search series", err)
	}
	defer rows.Close()

	var out []store.Series
	for rows.Next() {
		var s store.Series
		var relevance int
		if err := scanSeriesRowWithRelevance(rows, &s, &relevance); err != nil {
			return nil, store.WrapDBError("search series: scan", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FTSSearchSeries mirrors FTSSearchMovies over the series FTS table.
func (r *Repository) FTSSearchSeries(identity, query string, f store.Filter) ([]store.Series, error) {
	sanitized := store.SanitizeFTSQuery(query)
	if sanitized == "" {
		return r.GetSeries(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "fts_search_series", started, 150)

	r.store.RLock()
	defer r.store.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.store.DB().Query(`
		SELECT s.series_id, s.name, s.title, s.year, s.cover, s.plot, s.cast, s.director, s.genre,
		       s.release_date, s.last_modified, s.rating, s.rating_5based, s.episode_run_time, s.category_id, s.updated_at
		FROM xtream_series s
		INNER JOIN xtream_series_fts fts ON fts.rowid = s.id
		WHERE s.identity = ? AND xtream_series_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, identity, sanitized, limit)
	if err != nil {
		return nil, store.WrapDBError("fts search series", err)
	}
	defer rows.Close()

	var out []store.Series
	for rows.Next() {
		var s store.Series
		if err := scanSeriesRow(rows, &s); err != nil {
			return nil, store.WrapDBError("fts search series: scan", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountSeries returns the number of series rows for identity matching f.
func (r *Repository) CountSeries(identity string, f store.Filter) (int, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, true)
	var count int
	err := r.store.DB().QueryRow(`SELECT COUNT(*) FROM xtream_series WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, store.WrapDBError("count series", err)
	}
	return count, nil
}

// DeleteSeries deletes episodes and seasons before the series row
// itself, all within one transaction, for the given identity. ids ==
// nil deletes every series (and its children) owned by identity.
func (r *Repository) DeleteSeries(identity string, ids []int) (int, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("delete series: begin", err)
	}
	defer tx.Rollback()

	var episodeWhere, seasonWhere, seriesWhere string
	var args []any
	if ids == nil {
		episodeWhere = "identity = ?"
		seasonWhere = "identity = ?"
		seriesWhere = "identity = ?"
		args = []any{identity}
	} else {
		placeholders, withIDs := inClause(identity, ids)
		episodeWhere = "identity = ? AND series_id IN (" + placeholders + ")"
		seasonWhere = episodeWhere
		seriesWhere = "identity = ? AND series_id IN (" + placeholders + ")"
		args = withIDs
	}

	if _, err := tx.Exec(`DELETE FROM xtream_episodes WHERE `+episodeWhere, args...); err != nil {
		return 0, store.WrapDBError("delete series: episodes", err)
	}
	if _, err := tx.Exec(`DELETE FROM xtream_seasons WHERE `+seasonWhere, args...); err != nil {
		return 0, store.WrapDBError("delete series: seasons", err)
	}
	res, err := tx.Exec(`DELETE FROM xtream_series WHERE `+seriesWhere, args...)
	if err != nil {
		return 0, store.WrapDBError("delete series: series", err)
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("delete series: commit", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// GetSeriesIDs returns the set of series_ids cached for identity.
func (r *Repository) GetSeriesIDs(identity string) (map[int]struct{}, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	rows, err := r.store.DB().Query(`SELECT series_id FROM xtream_series WHERE identity = ?`, identity)
	if err != nil {
		return nil, store.WrapDBError("get series ids", err)
	}
	defer rows.Close()

	ids := map[int]struct{}{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, store.WrapDBError("get series ids: scan", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSeriesRow(row scannable, s *store.Series) error {
	return row.Scan(&s.SeriesID, &s.Name, &s.Title, &s.Year, &s.Cover, &s.Plot, &s.Cast, &s.Director,
		&s.Genre, &s.ReleaseDate, &s.LastModified, &s.Rating, &s.Rating5Based, &s.EpisodeRunTime,
		&s.CategoryID, &s.UpdatedAt)
}

func scanSeriesRowWithRelevance(row scannable, s *store.Series, relevance *int) error {
	return row.Scan(&s.SeriesID, &s.Name, &s.Title, &s.Year, &s.Cover, &s.Plot, &s.Cast, &s.Director,
		&s.Genre, &s.ReleaseDate, &s.LastModified, &s.Rating, &s.Rating5Based, &s.EpisodeRunTime,
		&s.CategoryID, &s.UpdatedAt, relevance)
}
