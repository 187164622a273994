package store

import "testing"

func TestDatabaseStatsAndContentCountsOnEmptyStore(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	stats, err := s.DatabaseStats()
	if err != nil {
		t.Fatalf("database stats: %v", err)
	}
	if stats.PageSize == 0 {
		t.Fatal("expected a non-zero page size")
	}

	if err := s.InitializeIdentity("user-1"); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	counts, err := s.ContentCounts("user-1")
	if err != nil {
		t.Fatalf("content counts: %v", err)
	}
	if counts.Channels != 0 || counts.Movies != 0 || counts.Series != 0 {
		t.Fatalf("expected all-zero counts for a freshly initialized identity, got %+v", counts)
	}
}

func TestCheckIntegrityReportsOK(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	result, err := s.CheckIntegrity()
	if err != nil {
		t.Fatalf("check integrity: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
}

func TestShouldVacuumFalseOnFreshDatabase(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	should, err := s.ShouldVacuum()
	if err != nil {
		t.Fatalf("should vacuum: %v", err)
	}
	if should {
		t.Fatal("a freshly migrated database should not need vacuuming")
	}
}

func TestOptimizeSettingsAndAnalyzeDoNotError(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Analyze(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if err := s.OptimizeSettings(); err != nil {
		t.Fatalf("optimize settings: %v", err)
	}
}
