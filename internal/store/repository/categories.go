package repository

import (
	"database/sql"
	"fmt"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// categoryTable maps a family to its dedicated category table. The
// three families are never merged into one table with a tag column;
// see original_source for why this shape was chosen.
func categoryTable(family string) (string, error) {
	switch family {
	case "channels":
		return "xtream_channel_categories", nil
	case "movies":
		return "xtream_movie_categories", nil
	case "series":
		return "xtream_series_categories", nil
	default:
		return "", store.NewValidationError("family", "must be channels, movies, or series")
	}
}

// SaveCategories upserts rows keyed by (identity, category_id) into
// the table for family; each entry's own Family field is not consulted.
func (r *Repository) SaveCategories(identity string, family string, cats []store.Category) (int, error) {
	if len(cats) == 0 {
		return 0, nil
	}
	if identity == "" {
		return 0, store.NewValidationError("identity", "must not be empty")
	}
	table, err := categoryTable(family)
	if err != nil {
		return 0, err
	}
	for _, c := range cats {
		if c.CategoryID == "" {
			return 0, store.NewValidationError("category_id", "must not be empty")
		}
	}

	r.store.Lock()
	defer r.store.Unlock()

	tx, err := r.store.DB().Begin()
	if err != nil {
		return 0, store.WrapDBError("save categories: begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (identity, category_id, category_name, parent_id, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity, category_id) DO UPDATE SET
			category_name = excluded.category_name, parent_id = excluded.parent_id, updated_at = CURRENT_TIMESTAMP
	`, table))
	if err != nil {
		return 0, store.WrapDBError("save categories: prepare", err)
	}
	defer stmt.Close()

	for _, c := range cats {
		if _, err := stmt.Exec(identity, c.CategoryID, c.CategoryName, c.ParentID); err != nil {
			return 0, store.WrapDBError("save categories: upsert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, store.WrapDBError("save categories: commit", err)
	}
	return len(cats), nil
}

// GetCategories lists every category row for identity in family.
func (r *Repository) GetCategories(identity, family string) ([]store.Category, error) {
	table, err := categoryTable(family)
	if err != nil {
		return nil, err
	}

	r.store.RLock()
	defer r.store.RUnlock()

	rows, err := r.store.DB().Query(fmt.Sprintf(`
		SELECT category_id, category_name, parent_id FROM %s WHERE identity = ? ORDER BY category_name COLLATE NOCASE ASC
	`, table), identity)
	if err != nil {
		return nil, store.WrapDBError("get categories", err)
	}
	defer rows.Close()

	var out []store.Category
	for rows.Next() {
		c := store.Category{Family: family}
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.ParentID); err != nil {
			return nil, store.WrapDBError("get categories: scan", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCategories deletes category rows for identity in family. ids ==
// nil deletes every category in that family for identity.
func (r *Repository) DeleteCategories(identity, family string, ids []string) (int, error) {
	table, err := categoryTable(family)
	if err != nil {
		return 0, err
	}
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}

	r.store.Lock()
	defer r.store.Unlock()

	var res sql.Result
	if ids == nil {
		res, err = r.store.DB().Exec(fmt.Sprintf(`DELETE FROM %s WHERE identity = ?`, table), identity)
	} else {
		placeholders := ""
		args := []any{identity}
		for i, id := range ids {
			if i > 0 {
				placeholders += ","
			}
			placeholders += "?"
			args = append(args, id)
		}
		res, err = r.store.DB().Exec(fmt.Sprintf(`DELETE FROM %s WHERE identity = ? AND category_id IN (%s)`, table, placeholders), args...)
	}
	if err != nil {
		return 0, store.WrapDBError("delete categories", err)
	}

	n, _ := res.RowsAffected()
	return int(n), nil
}
