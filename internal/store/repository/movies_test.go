package repository

import (
	"testing"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func TestSaveMoviesUpsertAndPagination(t *testing.T) {
	repo := newTestRepo(t)

	movies := make([]store.Movie, 0, 5)
	for i := 1; i <= 5; i++ {
		movies = append(movies, store.Movie{StreamID: i, Name: "Movie"})
	}
	if _, err := repo.SaveMovies("user-1", movies); err != nil {
		t.Fatalf("save movies: %v", err)
	}

	page1, err := repo.GetMovies("user-1", store.Filter{Limit: 2})
	if err != nil {
		t.Fatalf("get movies page 1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected page size 2, got %d", len(page1))
	}

	page2, err := repo.GetMovies("user-1", store.Filter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("get movies page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("expected page size 2, got %d", len(page2))
	}
	if page1[0].StreamID == page2[0].StreamID {
		t.Fatal("expected offset to advance past the first page")
	}
}

func TestSearchMoviesRanksPlotMatchIntoThirdTier(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveMovies("user-1", []store.Movie{
		{StreamID: 1, Name: "Alpha", Plot: strPtr("a story about robots")},
		{StreamID: 2, Name: "Robots", Plot: strPtr("irrelevant plot")},
		{StreamID: 3, Name: "Gamma", Plot: strPtr("a quiet drama about farming")},
	}); err != nil {
		t.Fatalf("save movies: %v", err)
	}

	got, err := repo.SearchMovies("user-1", "robots", store.Filter{})
	if err != nil {
		t.Fatalf("search movies: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected only the two matching movies (name exact + plot contains), got %d", len(got))
	}
	if got[0].Name != "Robots" {
		t.Fatalf("expected the exact name match first, got %q", got[0].Name)
	}
	if got[1].Name != "Alpha" {
		t.Fatalf("expected the plot-only match last, got %q", got[1].Name)
	}
}

func TestGetMoviesSortsByRatingDescending(t *testing.T) {
	repo := newTestRepo(t)
	rating1, rating2 := 5.0, 8.0
	if _, err := repo.SaveMovies("user-1", []store.Movie{
		{StreamID: 1, Name: "Low", Rating: &rating1},
		{StreamID: 2, Name: "High", Rating: &rating2},
	}); err != nil {
		t.Fatalf("save movies: %v", err)
	}

	got, err := repo.GetMovies("user-1", store.Filter{SortField: "rating", SortDesc: true})
	if err != nil {
		t.Fatalf("get movies: %v", err)
	}
	if len(got) != 2 || got[0].Name != "High" {
		t.Fatalf("expected High rated movie first, got %+v", got)
	}
}

func TestDeleteMoviesByIDList(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveMovies("user-1", []store.Movie{
		{StreamID: 1, Name: "Keep"},
		{StreamID: 2, Name: "Remove"},
	}); err != nil {
		t.Fatalf("save movies: %v", err)
	}

	n, err := repo.DeleteMovies("user-1", []int{2})
	if err != nil {
		t.Fatalf("delete movies: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}

	remaining, err := repo.GetMovies("user-1", store.Filter{})
	if err != nil {
		t.Fatalf("get movies: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "Keep" {
		t.Fatalf("expected only Keep to remain, got %+v", remaining)
	}
}

func TestCountMoviesMatchesFilteredRowCount(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveMovies("user-1", []store.Movie{
		{StreamID: 1, Name: "A", Genre: strPtr("horror")},
		{StreamID: 2, Name: "B", Genre: strPtr("comedy")},
	}); err != nil {
		t.Fatalf("save movies: %v", err)
	}

	count, err := repo.CountMovies("user-1", store.Filter{Genre: "horror"})
	if err != nil {
		t.Fatalf("count movies: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 horror movie, got %d", count)
	}
}
