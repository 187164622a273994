package store

import (
	"database/sql"
	"strings"
)

// SanitizeFTSQuery strips FTS5 special punctuation, collapses
// whitespace, and lowercases q. Callers must fall back to a non-FTS
// listing when the result is empty.
func SanitizeFTSQuery(q string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(q) {
		switch {
		case strings.ContainsRune(`"'^*():-`, r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		case r == ' ' || r == '\t' || r == '\n':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// SanitizeLikePattern escapes literal '%' and '_' so a LIKE search on q
// treats them as ordinary characters rather than wildcards. Pair with
// `LIKE ... ESCAPE '\'`.
func SanitizeLikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}

// RebuildFTSTx fully repopulates the three FTS virtual tables for
// identity from the primary content tables, inside tx. Bulk upserts are
// not guaranteed to trigger incremental FTS maintenance, so every
// write path calls this before committing.
func RebuildFTSTx(tx *sql.Tx, identity string) error {
	if _, err := tx.Exec(`
		DELETE FROM xtream_channels_fts WHERE rowid IN (SELECT id FROM xtream_channels WHERE identity = ?)
	`, identity); err != nil {
		return WrapDBError("rebuild fts: delete channels", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO xtream_channels_fts(rowid, name)
		SELECT id, name FROM xtream_channels WHERE identity = ?
	`, identity); err != nil {
		return WrapDBError("rebuild fts: insert channels", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM xtream_movies_fts WHERE rowid IN (SELECT id FROM xtream_movies WHERE identity = ?)
	`, identity); err != nil {
		return WrapDBError("rebuild fts: delete movies", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO xtream_movies_fts(rowid, name, title, genre, cast, director, plot)
		SELECT id, name, COALESCE(title,''), COALESCE(genre,''), COALESCE("cast",''), COALESCE(director,''), COALESCE(plot,'')
		FROM xtream_movies WHERE identity = ?
	`, identity); err != nil {
		return WrapDBError("rebuild fts: insert movies", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM xtream_series_fts WHERE rowid IN (SELECT id FROM xtream_series WHERE identity = ?)
	`, identity); err != nil {
		return WrapDBError("rebuild fts: delete series", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO xtream_series_fts(rowid, name, title, genre, cast, director, plot)
		SELECT id, name, COALESCE(title,''), COALESCE(genre,''), COALESCE("cast",''), COALESCE(director,''), COALESCE(plot,'')
		FROM xtream_series WHERE identity = ?
	`, identity); err != nil {
		return WrapDBError("rebuild fts: insert series", err)
	}

	return nil
}

// RebuildFTS repopulates the FTS tables for identity in its own
// transaction. Exposed so the repository package can call it after a
// bulk write outside of ClearIdentity.
func (s *Store) RebuildFTS(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return WrapDBError("rebuild fts: begin", err)
	}
	defer tx.Rollback()

	if err := RebuildFTSTx(tx, identity); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return WrapDBError("rebuild fts: commit", err)
	}
	return nil
}
