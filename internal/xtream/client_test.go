package xtream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPanel(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetLiveCategories(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_api.php", r.URL.Path)
		assert.Equal(t, "get_live_categories", r.URL.Query().Get("action"))
		assert.Equal(t, "bob", r.URL.Query().Get("username"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"category_id":"1","category_name":"News","parent_id":"0"},{"category_id":2,"category_name":"Sports"}]`))
	})

	client := NewClient(Config{})
	cats, err := client.GetLiveCategories(context.Background(), Credentials{BaseURL: srv.URL, Username: "bob", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "1", cats[0].CategoryID)
	assert.Equal(t, "2", cats[1].CategoryID)
	assert.Equal(t, "channels", cats[0].Family)
}

func TestGetLiveStreamsScopedByCategory(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_live_streams", r.URL.Query().Get("action"))
		assert.Equal(t, "7", r.URL.Query().Get("category_id"))
		w.Write([]byte(`[{"stream_id":"100","name":"BBC One","category_id":"7"}]`))
	})

	client := NewClient(Config{})
	streams, err := client.GetLiveStreams(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "p"}, "7")
	require.NoError(t, err)
	require.Len(t, streams, 1)
	assert.Equal(t, 100, streams[0].StreamID)
}

func TestGetVodStreamsTolerantNumericRating(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"stream_id":5,"name":"Movie","year":"2021","rating":7.5,"rating_5based":"3.8"}]`))
	})

	client := NewClient(Config{})
	movies, err := client.GetVodStreams(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "p"}, "")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	m := movies[0]
	require.NotNil(t, m.Year)
	assert.Equal(t, 2021, *m.Year)
	require.NotNil(t, m.Rating)
	assert.InDelta(t, 7.5, *m.Rating, 0.001)
}

func TestGetSeriesInfo(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "get_series_info", r.URL.Query().Get("action"))
		assert.Equal(t, "42", r.URL.Query().Get("series_id"))
		w.Write([]byte(`{"info":{"series_id":42,"name":"Show"},"seasons":[{"season_number":1,"episode_count":10}],"episodes":{"1":[{"id":"501","episode_num":"1","title":"Pilot"}]}}`))
	})

	client := NewClient(Config{})
	info, err := client.GetSeriesInfo(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "p"}, 42)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Show", info.Series.Name)
	assert.Equal(t, 42, info.Series.SeriesID)
	require.Len(t, info.Seasons, 1)
	require.Len(t, info.Episodes, 1)
	assert.Equal(t, "Pilot", *info.Episodes[0].Title)
}

func TestUnauthorizedMapsToAuthError(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := NewClient(Config{})
	_, err := client.GetLiveCategories(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "bad"})
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestServerErrorMapsToApiError(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	client := NewClient(Config{})
	_, err := client.GetVodCategories(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "p"})
	require.Error(t, err)
	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestMalformedBodyMapsToParseError(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	client := NewClient(Config{})
	_, err := client.GetSeriesCategories(context.Background(), Credentials{BaseURL: srv.URL, Username: "u", Password: "p"})
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestContextCancellationDuringRequest(t *testing.T) {
	srv := newMockPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{})
	_, err := client.GetLiveCategories(ctx, Credentials{BaseURL: srv.URL, Username: "u", Password: "p"})
	require.Error(t, err)
	var cancelled *CancelledError
	require.ErrorAs(t, err, &cancelled)
}
