package repository

import (
	"testing"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s, logging.Nop())
}

func strPtr(s string) *string { return &s }

func TestSaveCategoriesUpsertsAndRejectsUnknownFamily(t *testing.T) {
	repo := newTestRepo(t)

	n, err := repo.SaveCategories("user-1", "channels", []store.Category{
		{CategoryID: "1", CategoryName: "News"},
		{CategoryID: "2", CategoryName: "Sports"},
	})
	if err != nil {
		t.Fatalf("save categories: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows saved, got %d", n)
	}

	n, err = repo.SaveCategories("user-1", "channels", []store.Category{
		{CategoryID: "1", CategoryName: "News (Updated)"},
	})
	if err != nil {
		t.Fatalf("save categories (update): %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row saved, got %d", n)
	}

	cats, err := repo.GetCategories("user-1", "channels")
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories after upsert, got %d", len(cats))
	}

	_, err = repo.SaveCategories("user-1", "bogus", []store.Category{{CategoryID: "1", CategoryName: "x"}})
	if err == nil {
		t.Fatal("expected validation error for unknown family")
	}
}

func TestSaveCategoriesEmptyInputIsNoOp(t *testing.T) {
	repo := newTestRepo(t)
	n, err := repo.SaveCategories("user-1", "channels", nil)
	if err != nil {
		t.Fatalf("save categories: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

func TestDeleteCategoriesByIDAndAll(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveCategories("user-1", "movies", []store.Category{
		{CategoryID: "1", CategoryName: "Action"},
		{CategoryID: "2", CategoryName: "Comedy"},
	}); err != nil {
		t.Fatalf("save categories: %v", err)
	}

	n, err := repo.DeleteCategories("user-1", "movies", []string{"1"})
	if err != nil {
		t.Fatalf("delete categories: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row deleted, got %d", n)
	}

	remaining, err := repo.GetCategories("user-1", "movies")
	if err != nil {
		t.Fatalf("get categories: %v", err)
	}
	if len(remaining) != 1 || remaining[0].CategoryID != "2" {
		t.Fatalf("expected only category 2 to remain, got %+v", remaining)
	}

	n, err = repo.DeleteCategories("user-1", "movies", nil)
	if err != nil {
		t.Fatalf("delete all categories: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 remaining row deleted, got %d", n)
	}
}
