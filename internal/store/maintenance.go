package store

// DatabaseStats reports page-level size accounting, used to decide
// whether a Vacuum is worthwhile.
type DatabaseStats struct {
	PageCount     int64
	PageSize      int64
	FreelistCount int64
	SizeBytes     int64
}

// DatabaseStats queries SQLite's page accounting pragmas. Never invoked
// automatically inside any query path; callers schedule it themselves.
func (s *Store) DatabaseStats() (*DatabaseStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &DatabaseStats{}
	if err := s.db.QueryRow(`PRAGMA page_count`).Scan(&st.PageCount); err != nil {
		return nil, WrapDBError("database stats: page_count", err)
	}
	if err := s.db.QueryRow(`PRAGMA page_size`).Scan(&st.PageSize); err != nil {
		return nil, WrapDBError("database stats: page_size", err)
	}
	if err := s.db.QueryRow(`PRAGMA freelist_count`).Scan(&st.FreelistCount); err != nil {
		return nil, WrapDBError("database stats: freelist_count", err)
	}
	st.SizeBytes = st.PageCount * st.PageSize
	return st, nil
}

// ShouldVacuum reports true once the freelist exceeds 10% of the
// database's total pages, mirroring the ratio the original content
// cache used to decide when a Vacuum pays for itself.
func (s *Store) ShouldVacuum() (bool, error) {
	st, err := s.DatabaseStats()
	if err != nil {
		return false, err
	}
	if st.PageCount == 0 {
		return false, nil
	}
	return float64(st.FreelistCount)/float64(st.PageCount) > 0.10, nil
}

// Vacuum rebuilds the database file to reclaim free pages.
func (s *Store) Vacuum() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return WrapDBError("vacuum", err)
	}
	return nil
}

// Analyze refreshes the query planner's table statistics.
func (s *Store) Analyze() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`ANALYZE`); err != nil {
		return WrapDBError("analyze", err)
	}
	return nil
}

// CheckIntegrity runs SQLite's integrity_check pragma and returns its
// verdict; "ok" means the database passed.
func (s *Store) CheckIntegrity() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result string
	if err := s.db.QueryRow(`PRAGMA integrity_check`).Scan(&result); err != nil {
		return "", WrapDBError("check integrity", err)
	}
	return result, nil
}

// OptimizeSettings applies PRAGMA optimize, which SQLite recommends
// running periodically (e.g. before closing a long-lived connection).
func (s *Store) OptimizeSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`PRAGMA optimize`); err != nil {
		return WrapDBError("optimize settings", err)
	}
	return nil
}

// ContentCounts reports per-family row counts for identity, used by
// callers that want a cheap summary without listing rows.
type ContentCounts struct {
	Channels int
	Movies   int
	Series   int
}

func (s *Store) ContentCounts(identity string) (*ContentCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &ContentCounts{}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM xtream_channels WHERE identity = ?`, identity).Scan(&c.Channels); err != nil {
		return nil, WrapDBError("content counts: channels", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM xtream_movies WHERE identity = ?`, identity).Scan(&c.Movies); err != nil {
		return nil, WrapDBError("content counts: movies", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM xtream_series WHERE identity = ?`, identity).Scan(&c.Series); err != nil {
		return nil, WrapDBError("content counts: series", err)
	}
	return c, nil
}
