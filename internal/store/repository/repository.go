// Package repository implements typed CRUD, filtered query, counting,
// and relevance search for each content family, on top of internal/store.
package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// Repository is the shared entry point for all per-family operations.
// It holds a handle to the Store rather than owning a connection.
type Repository struct {
	store  *store.Store
	logger *logging.Logger
}

// New builds a Repository over an already-open Store. logger may be
// logging.Nop() in tests.
func New(s *store.Store, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Repository{store: s, logger: logger}
}

func logSlowQuery(logger *logging.Logger, op string, started time.Time, thresholdMs int64) {
	elapsed := time.Since(started)
	if elapsed.Milliseconds() > thresholdMs {
		logger.Warn("repository", "slow query", logging.F("op", op), logging.F("elapsed_ms", elapsed.Milliseconds()))
	}
}

// buildFilterClause renders the shared Filter fields (category, name
// LIKE, genre, year, min rating) into a WHERE fragment plus args,
// starting from the base `identity = ?` predicate every query needs.
// ratingIsText must be set for series, whose rating column is declared
// TEXT per spec §3: without the CAST, SQLite's TEXT column affinity
// coerces the bound float into a string and compares lexically.
func buildFilterClause(identity string, f store.Filter, nameContainsOnly, ratingIsText bool) (string, []any) {
	clauses := []string{"identity = ?"}
	args := []any{identity}

	if f.CategoryID != "" {
		clauses = append(clauses, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.NameContains != "" {
		pattern := "%" + store.SanitizeLikePattern(f.NameContains) + "%"
		clauses = append(clauses, "name LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	if !nameContainsOnly {
		if f.Genre != "" {
			pattern := "%" + store.SanitizeLikePattern(f.Genre) + "%"
			clauses = append(clauses, "genre LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		if f.Year != 0 {
			clauses = append(clauses, "year = ?")
			args = append(args, f.Year)
		}
		if f.MinRating != 0 {
			rating := "rating"
			if ratingIsText {
				rating = "CAST(rating AS REAL)"
			}
			clauses = append(clauses, rating+" >= ?")
			args = append(args, f.MinRating)
		}
	}

	return strings.Join(clauses, " AND "), args
}

func limitOffsetClause(f store.Filter) (string, []any) {
	if f.Limit <= 0 {
		return "", nil
	}
	if f.Offset > 0 {
		return " LIMIT ? OFFSET ?", []any{f.Limit, f.Offset}
	}
	return " LIMIT ?", []any{f.Limit}
}

func movieOrderClause(f store.Filter) string {
	field := "name COLLATE NOCASE"
	switch f.SortField {
	case "rating":
		field = "rating"
	case "year":
		field = "year"
	case "added":
		field = "added"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", field, dir)
}
