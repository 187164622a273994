// Package xtream is the Remote Client: HTTP fetch of categories,
// content lists, and series detail documents against an xtream-codes
// compatible player_api.php endpoint, plus the Retry Policy that
// wraps every fetch.
package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

// Config configures a Client. Timeout is the per-request HTTP timeout;
// spec §5 calls for 30s during sync and 5s for credential validation.
type Config struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues player_api.php requests. It holds no per-identity
// state; base URL and credentials are passed to every call.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Client with cfg.Timeout (default 30s) unless
// cfg.HTTPClient is supplied directly.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient != nil {
		return &Client{httpClient: cfg.HTTPClient}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Credentials is the triple supplied by the caller for every sync.
type Credentials struct {
	BaseURL  string
	Username string
	Password string
}

func buildURL(base, action, username, password string, extra url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	u.Path = joinPath(u.Path, "player_api.php")

	q := url.Values{}
	q.Set("username", username)
	q.Set("password", password)
	q.Set("action", action)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func joinPath(base, suffix string) string {
	if base == "" {
		return "/" + suffix
	}
	if base[len(base)-1] == '/' {
		return base + suffix
	}
	return base + "/" + suffix
}

// fetch issues a GET to target and returns the raw response body, or a
// classified error (NetworkError/ApiError/AuthError). It never
// retries; that is Retry Policy's job, one layer up.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &CancelledError{}
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{StatusCode: resp.StatusCode, Msg: "invalid credentials"}
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{StatusCode: resp.StatusCode, Msg: "access forbidden"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ApiError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// GetLiveCategories fetches get_live_categories.
func (c *Client) GetLiveCategories(ctx context.Context, cred Credentials) ([]store.Category, error) {
	raw, err := fetchArray[rawCategory](ctx, c, cred, "get_live_categories", nil)
	if err != nil {
		return nil, err
	}
	return convertCategories("channels", raw), nil
}

// GetVodCategories fetches get_vod_categories.
func (c *Client) GetVodCategories(ctx context.Context, cred Credentials) ([]store.Category, error) {
	raw, err := fetchArray[rawCategory](ctx, c, cred, "get_vod_categories", nil)
	if err != nil {
		return nil, err
	}
	return convertCategories("movies", raw), nil
}

// GetSeriesCategories fetches get_series_categories.
func (c *Client) GetSeriesCategories(ctx context.Context, cred Credentials) ([]store.Category, error) {
	raw, err := fetchArray[rawCategory](ctx, c, cred, "get_series_categories", nil)
	if err != nil {
		return nil, err
	}
	return convertCategories("series", raw), nil
}

// GetLiveStreams fetches get_live_streams, optionally scoped to categoryID.
func (c *Client) GetLiveStreams(ctx context.Context, cred Credentials, categoryID string) ([]store.Channel, error) {
	raw, err := fetchArray[rawChannel](ctx, c, cred, "get_live_streams", categoryExtra(categoryID))
	if err != nil {
		return nil, err
	}
	out := make([]store.Channel, len(raw))
	for i, r := range raw {
		out[i] = toChannel(r)
	}
	return out, nil
}

// GetVodStreams fetches get_vod_streams, optionally scoped to categoryID.
func (c *Client) GetVodStreams(ctx context.Context, cred Credentials, categoryID string) ([]store.Movie, error) {
	raw, err := fetchArray[rawMovie](ctx, c, cred, "get_vod_streams", categoryExtra(categoryID))
	if err != nil {
		return nil, err
	}
	out := make([]store.Movie, len(raw))
	for i, r := range raw {
		out[i] = toMovie(r)
	}
	return out, nil
}

// GetSeries fetches get_series, optionally scoped to categoryID.
func (c *Client) GetSeries(ctx context.Context, cred Credentials, categoryID string) ([]store.Series, error) {
	raw, err := fetchArray[rawSeries](ctx, c, cred, "get_series", categoryExtra(categoryID))
	if err != nil {
		return nil, err
	}
	out := make([]store.Series, len(raw))
	for i, r := range raw {
		out[i] = toSeries(r)
	}
	return out, nil
}

// GetSeriesInfo fetches get_series_info for one series_id.
func (c *Client) GetSeriesInfo(ctx context.Context, cred Credentials, seriesID int) (*store.SeriesDetails, error) {
	target, err := buildURL(cred.BaseURL, "get_series_info", cred.Username, cred.Password,
		url.Values{"series_id": {fmt.Sprintf("%d", seriesID)}})
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	body, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	var info rawSeriesInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &ParseError{Err: err}
	}
	details := toSeriesDetails(seriesID, info)
	return &details, nil
}

func convertCategories(family string, raw []rawCategory) []store.Category {
	out := make([]store.Category, len(raw))
	for i, r := range raw {
		out[i] = toCategory(family, r)
	}
	return out
}

func categoryExtra(categoryID string) url.Values {
	if categoryID == "" {
		return nil
	}
	return url.Values{"category_id": {categoryID}}
}

func fetchArray[T any](ctx context.Context, c *Client, cred Credentials, action string, extra url.Values) ([]T, error) {
	target, err := buildURL(cred.BaseURL, action, cred.Username, cred.Password, extra)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	body, err := c.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("expected JSON array for %s: %w", action, err)}
	}
	return out, nil
}
