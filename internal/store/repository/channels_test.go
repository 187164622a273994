package repository

import (
	"testing"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func TestSaveChannelsUpsertIsIdempotentAndTracksCount(t *testing.T) {
	repo := newTestRepo(t)

	channels := []store.Channel{
		{StreamID: 1, Name: "CNN"},
		{StreamID: 2, Name: "BBC"},
	}
	n, err := repo.SaveChannels("user-1", channels)
	if err != nil {
		t.Fatalf("save channels: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}

	// Re-saving the same rows must not create duplicates.
	if _, err := repo.SaveChannels("user-1", channels); err != nil {
		t.Fatalf("re-save channels: %v", err)
	}
	count, err := repo.CountChannels("user-1", store.Filter{})
	if err != nil {
		t.Fatalf("count channels: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected upsert to be idempotent, got count %d", count)
	}
}

func TestSaveChannelsRejectsNonPositiveStreamID(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.SaveChannels("user-1", []store.Channel{{StreamID: 0, Name: "Bad"}})
	if err == nil {
		t.Fatal("expected validation error for non-positive stream id")
	}
}

func TestGetChannelsFiltersByCategory(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{
		{StreamID: 1, Name: "CNN", CategoryID: strPtr("news")},
		{StreamID: 2, Name: "ESPN", CategoryID: strPtr("sports")},
	}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	got, err := repo.GetChannels("user-1", store.Filter{CategoryID: "news"})
	if err != nil {
		t.Fatalf("get channels: %v", err)
	}
	if len(got) != 1 || got[0].Name != "CNN" {
		t.Fatalf("expected only CNN in the news category, got %+v", got)
	}
}

func TestSearchChannelsOrdersByRelevanceTier(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{
		{StreamID: 1, Name: "ESPN Extra"},
		{StreamID: 2, Name: "ESPN"},
		{StreamID: 3, Name: "Classic ESPN Reruns"},
	}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	got, err := repo.SearchChannels("user-1", "ESPN", store.Filter{})
	if err != nil {
		t.Fatalf("search channels: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all 3 matches, got %d", len(got))
	}
	if got[0].Name != "ESPN" {
		t.Fatalf("expected exact match first, got %q", got[0].Name)
	}
	if got[1].Name != "ESPN Extra" {
		t.Fatalf("expected starts-with match second, got %q", got[1].Name)
	}
	if got[2].Name != "Classic ESPN Reruns" {
		t.Fatalf("expected contains match last, got %q", got[2].Name)
	}
}

func TestSearchChannelsEmptyQueryDegradesToGetChannels(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{{StreamID: 1, Name: "CNN"}}); err != nil {
		t.Fatalf("save channels: %v", err)
	}
	got, err := repo.SearchChannels("user-1", "", store.Filter{})
	if err != nil {
		t.Fatalf("search channels: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected degraded search to return all rows, got %d", len(got))
	}
}

func TestSearchChannelsTreatsWildcardsLiterally(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{
		{StreamID: 1, Name: "100% News"},
		{StreamID: 2, Name: "100x News"},
	}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	got, err := repo.SearchChannels("user-1", "100%", store.Filter{})
	if err != nil {
		t.Fatalf("search channels: %v", err)
	}
	if len(got) != 1 || got[0].Name != "100% News" {
		t.Fatalf("expected literal %% to match only the exact channel, got %+v", got)
	}
}

func TestFTSSearchChannelsReturnsRowsAfterSave(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{{StreamID: 1, Name: "Discovery Channel"}}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	got, err := repo.FTSSearchChannels("user-1", "discovery", store.Filter{})
	if err != nil {
		t.Fatalf("fts search channels: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 fts match, got %d", len(got))
	}
}

func TestDeleteChannelsNilDeletesAllNonNilEmptyIsNoOp(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{
		{StreamID: 1, Name: "A"},
		{StreamID: 2, Name: "B"},
	}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	n, err := repo.DeleteChannels("user-1", []int{})
	if err != nil {
		t.Fatalf("delete channels (empty slice): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no-op on empty non-nil slice, got %d deleted", n)
	}

	n, err = repo.DeleteChannels("user-1", nil)
	if err != nil {
		t.Fatalf("delete channels (nil): %v", err)
	}
	if n != 2 {
		t.Fatalf("expected nil ids to delete all rows, got %d", n)
	}

	count, err := repo.CountChannels("user-1", store.Filter{})
	if err != nil {
		t.Fatalf("count channels: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 channels remaining, got %d", count)
	}
}

func TestGetChannelIDsReflectsSavedRows(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.SaveChannels("user-1", []store.Channel{
		{StreamID: 5, Name: "A"},
		{StreamID: 9, Name: "B"},
	}); err != nil {
		t.Fatalf("save channels: %v", err)
	}

	ids, err := repo.GetChannelIDs("user-1")
	if err != nil {
		t.Fatalf("get channel ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if _, ok := ids[5]; !ok {
		t.Fatal("expected id 5 present")
	}
	if _, ok := ids[9]; !ok {
		t.Fatal("expected id 9 present")
	}
}
