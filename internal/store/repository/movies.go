package repository

import (
	"database/sql"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// SaveMovies upserts rows keyed by (identity, stream_id).
func (r *Repository) SaveMovies(identity string, movies []store.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	if identity == "" {
		return 0, store.NewValidationError("identity", "must not be empty")
	}
	for _, m := range movies {
		if m.StreamID <= 0 {
			return 0, store.NewValidationError("stream_id", "must be positive")
		}
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("save movies: begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO xtream_movies
			(identity, stream_id, name, title, year, stream_type, stream_icon, rating,
			 rating_5based, genre, added, episode_run_time, category_id, container_extension,
			 custom_sid, direct_source, release_date, cast, director, plot, youtube_trailer, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, stream_id) DO UPDATE SET
			name = excluded.name, title = excluded.title, year = excluded.year,
			stream_type = excluded.stream_type, stream_icon = excluded.stream_icon,
			rating = excluded.rating, rating_5based = excluded.rating_5based, genre = excluded.genre,
			added = excluded.added, episode_run_time = excluded.episode_run_time,
			category_id = excluded.category_id, container_extension = excluded.container_extension,
			custom_sid = excluded.custom_sid, direct_source = excluded.direct_source,
			release_date = excluded.release_date, cast = excluded.cast, director = excluded.director,
			plot = excluded.plot, youtube_trailer = excluded.youtube_trailer, updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, store.WrapDBError("save movies: prepare", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		if _, err := stmt.Exec(identity, m.StreamID, m.Name, m.Title, m.Year, m.StreamType, m.StreamIcon,
			m.Rating, m.Rating5Based, m.Genre, m.Added, m.EpisodeRunTime, m.CategoryID, m.ContainerExtension,
			m.CustomSID, m.DirectSource, m.ReleaseDate, m.Cast, m.Director, m.Plot, m.YoutubeTrailer); err != nil {
			return 0, store.WrapDBError("save movies: upsert", err)
		}
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM xtream_movies WHERE identity = ?`, identity).Scan(&count); err != nil {
		return 0, store.WrapDBError("save movies: count", err)
	}
	if _, err := tx.Exec(`
		UPDATE xtream_content_sync SET movies_synced = ?, last_sync_movies = CURRENT_TIMESTAMP WHERE identity = ?
	`, count, identity); err != nil {
		return 0, store.WrapDBError("save movies: update status", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("save movies: commit", err)
	}
	return len(movies), nil
}

// GetMovies supports the shared filter set plus movie-specific sort:
// {name|rating|year|added} x {asc|desc}.
func (r *Repository) GetMovies(identity string, f store.Filter) ([]store.Movie, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, false)
	limit, limitArgs := limitOffsetClause(f)
	args = append(args, limitArgs...)

	query := `
		SELECT stream_id, name, title, year, stream_type, stream_icon, rating, rating_5based,
		       genre, added, episode_run_time, category_id, container_extension, custom_sid,
		       direct_source, release_date, "cast", director, plot, youtube_trailer, updated_at
		FROM xtream_movies WHERE ` + where + movieOrderClause(f) + limit

	rows, err := r.store.DB().Query(query, args...)
	if err != nil {
		return nil, store.WrapDBError("get movies", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// SearchMovies ranks name, title, and plot matches into the same four
// tiers as channels; empty query degrades to GetMovies.
func (r *Repository) SearchMovies(identity, query string, f store.Filter) ([]store.Movie, error) {
	if query == "" {
		return r.GetMovies(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "search_movies", started, 100)

	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, false)
	exact := query
	startsWith := store.SanitizeLikePattern(query) + "%"
	contains := "%" + store.SanitizeLikePattern(query) + "%"
	limit, limitArgs := limitOffsetClause(f)

	sqlQuery := `
		SELECT stream_id, name, title, year, stream_type, stream_icon, rating, rating_5based,
		       genre, added, episode_run_time, category_id, container_extension, custom_sid,
		       direct_source, release_date, "cast", director, plot, youtube_trailer, updated_at,
		       CASE
		         WHEN LOWER(name) = LOWER(?) THEN 0
		         WHEN name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\') THEN 1
		         WHEN name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\')
		              OR (plot IS NOT NULL AND plot LIKE ? ESCAPE '\') THEN 2
		         ELSE 3
		       END AS relevance
		FROM xtream_movies WHERE ` + where + `
		AND (name LIKE ? ESCAPE '\' OR (title IS NOT NULL AND title LIKE ? ESCAPE '\')
		     OR (plot IS NOT NULL AND plot LIKE ? ESCAPE '\'))
		ORDER BY relevance ASC, name COLLATE NOCASE ASC` + limit

	allArgs := append([]any{exact, startsWith, startsWith, contains, contains, contains}, args...)
	allArgs = append(allArgs, contains, contains, contains)
	allArgs = append(allArgs, limitArgs...)

	rows, err := r.store.DB().Query(sqlQuery, allArgs...)
	if err != nil {
		return nil, store.WrapDBError("search movies", err)
	}
	defer rows.Close()

	var out []store.Movie
	for rows.Next() {
		var m store.Movie
		var relevance int
		if err := scanMovieRowWithRelevance(rows, &m, &relevance); err != nil {
			return nil, store.WrapDBError("search movies: scan", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FTSSearchMovies mirrors FTSSearchChannels over the movies FTS table.
func (r *Repository) FTSSearchMovies(identity, query string, f store.Filter) ([]store.Movie, error) {
	sanitized := store.SanitizeFTSQuery(query)
	if sanitized == "" {
		return r.GetMovies(identity, f)
	}
	started := time.Now()
	defer logSlowQuery(r.logger, "fts_search_movies", started, 150)

	r.store.RLock()
	defer r.store.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}

	rows, err := r.store.DB().Query(`
		SELECT m.stream_id, m.name, m.title, m.year, m.stream_type, m.stream_icon, m.rating, m.rating_5based,
		       m.genre, m.added, m.episode_run_time, m.category_id, m.container_extension, m.custom_sid,
		       m.direct_source, m.release_date, m.cast, m.director, m.plot, m.youtube_trailer, m.updated_at
		FROM xtream_movies m
		INNER JOIN xtream_movies_fts fts ON fts.rowid = m.id
		WHERE m.identity = ? AND xtream_movies_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, identity, sanitized, limit)
	if err != nil {
		return nil, store.WrapDBError("fts search movies", err)
	}
	defer rows.Close()

	return scanMovies(rows)
}

// CountMovies returns the number of rows for identity matching f.
func (r *Repository) CountMovies(identity string, f store.Filter) (int, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	where, args := buildFilterClause(identity, f, false, false)
	var count int
	err := r.store.DB().QueryRow(`SELECT COUNT(*) FROM xtream_movies WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, store.WrapDBError("count movies", err)
	}
	return count, nil
}

// DeleteMovies deletes rows for identity. ids == nil deletes every row.
func (r *Repository) DeleteMovies(identity string, ids []int) (int, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("delete movies: begin", err)
	}
	defer tx.Rollback()

	var res sql.Result
	if ids == nil {
		res, err = tx.Exec(`DELETE FROM xtream_movies WHERE identity = ?`, identity)
	} else {
		placeholders, args := inClause(identity, ids)
		res, err = tx.Exec(`DELETE FROM xtream_movies WHERE identity = ? AND stream_id IN (`+placeholders+`)`, args...)
	}
	if err != nil {
		return 0, store.WrapDBError("delete movies", err)
	}

	if err := store.RebuildFTSTx(tx, identity); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("delete movies: commit", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}

// GetMovieIDs returns the set of stream_ids cached for identity.
func (r *Repository) GetMovieIDs(identity string) (map[int]struct{}, error) {
	r.store.RLock()
	defer r.store.RUnlock()

	rows, err := r.store.DB().Query(`SELECT stream_id FROM xtream_movies WHERE identity = ?`, identity)
	if err != nil {
		return nil, store.WrapDBError("get movie ids", err)
	}
	defer rows.Close()

	ids := map[int]struct{}{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, store.WrapDBError("get movie ids: scan", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func scanMovies(rows *sql.Rows) ([]store.Movie, error) {
	var out []store.Movie
	for rows.Next() {
		var m store.Movie
		if err := scanMovieRow(rows, &m); err != nil {
			return nil, store.WrapDBError("scan movie", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMovieRow(rows *sql.Rows, m *store.Movie) error {
	return rows.Scan(&m.StreamID, &m.Name, &m.Title, &m.Year, &m.StreamType, &m.StreamIcon,
		&m.Rating, &m.Rating5Based, &m.Genre, &m.Added, &m.EpisodeRunTime, &m.CategoryID,
		&m.ContainerExtension, &m.CustomSID, &m.DirectSource, &m.ReleaseDate, &m.Cast,
		&m.Director, &m.Plot, &m.YoutubeTrailer, &m.UpdatedAt)
}

func scanMovieRowWithRelevance(rows *sql.Rows, m *store.Movie, relevance *int) error {
	return rows.Scan(&m.StreamID, &m.Name, &m.Title, &m.Year, &m.StreamType, &m.StreamIcon,
		&m.Rating, &m.Rating5Based, &m.Genre, &m.Added, &m.EpisodeRunTime, &m.CategoryID,
		&m.ContainerExtension, &m.CustomSID, &m.DirectSource, &m.ReleaseDate, &m.Cast,
		&m.Director, &m.Plot, &m.YoutubeTrailer, &m.UpdatedAt, relevance)
}
