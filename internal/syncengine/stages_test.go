package syncengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
	"github.com/Nomadcxx/xtreamcached/internal/store"
	"github.com/Nomadcxx/xtreamcached/internal/store/repository"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

func TestFetchSeriesDetailsPersistsSeasonsAndEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"info": {"series_id": 7, "name": "Show"},
			"seasons": [{"season_number": 1, "name": "Season One"}],
			"episodes": {"1": [{"id": "e1", "episode_num": "1", "title": "Pilot"}]}
		}`))
	}))
	defer srv.Close()

	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()
	if err := s.InitializeIdentity("user-1"); err != nil {
		t.Fatalf("initialize identity: %v", err)
	}

	repo := repository.New(s, logging.Nop())
	client := xtream.NewClient(xtream.Config{Timeout: 2 * time.Second})
	sc := NewScheduler(s, repo, client, logging.Nop(), xtream.RetryConfig{MaxRetries: 0, InitialDelayMs: 1, MaxDelayMs: 1, BackoffMultiplier: 1})
	cred := xtream.Credentials{BaseURL: srv.URL, Username: "u", Password: "p"}

	details, err := sc.FetchSeriesDetails(context.Background(), "user-1", cred, 7)
	if err != nil {
		t.Fatalf("fetch series details: %v", err)
	}
	if details.Series.SeriesID != 7 {
		t.Fatalf("expected series id 7, got %d", details.Series.SeriesID)
	}

	persisted, err := repo.GetSeriesDetails("user-1", 7)
	if err != nil {
		t.Fatalf("get series details: %v", err)
	}
	if len(persisted.Seasons) != 1 || len(persisted.Episodes) != 1 {
		t.Fatalf("expected the fetched seasons/episodes to be persisted, got %+v", persisted)
	}
}
