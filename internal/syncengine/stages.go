package syncengine

import (
	"context"

	"github.com/Nomadcxx/xtreamcached/internal/store"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

// The six full-sync stages: each issues one retried fetch against the
// Remote Client, then hands the parsed entities to the Repository in
// one upsert transaction. None of these hold the Store's mutex across
// the fetch; xtream.Do and the HTTP round trip both run before the
// Repository call ever touches the connection.

func (sc *Scheduler) syncChannelCategories(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var cats []store.Category
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_live_categories", func() error {
		var fetchErr error
		cats, fetchErr = sc.client.GetLiveCategories(ctx, cred)
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveCategories(identity, "channels", cats)
}

func (sc *Scheduler) syncChannels(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var channels []store.Channel
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_live_streams", func() error {
		var fetchErr error
		channels, fetchErr = sc.client.GetLiveStreams(ctx, cred, "")
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveChannels(identity, channels)
}

func (sc *Scheduler) syncMovieCategories(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var cats []store.Category
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_vod_categories", func() error {
		var fetchErr error
		cats, fetchErr = sc.client.GetVodCategories(ctx, cred)
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveCategories(identity, "movies", cats)
}

func (sc *Scheduler) syncMovies(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var movies []store.Movie
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_vod_streams", func() error {
		var fetchErr error
		movies, fetchErr = sc.client.GetVodStreams(ctx, cred, "")
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveMovies(identity, movies)
}

func (sc *Scheduler) syncSeriesCategories(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var cats []store.Category
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_series_categories", func() error {
		var fetchErr error
		cats, fetchErr = sc.client.GetSeriesCategories(ctx, cred)
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveCategories(identity, "series", cats)
}

func (sc *Scheduler) syncSeries(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var series []store.Series
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_series", func() error {
		var fetchErr error
		series, fetchErr = sc.client.GetSeries(ctx, cred, "")
		return fetchErr
	})
	if err != nil {
		return 0, err
	}
	return sc.repo.SaveSeries(identity, series)
}

// FetchSeriesDetails retrieves and persists the seasons/episodes for
// one series on demand. It is not one of the six full-sync stages —
// get_series_info is fetched per-series only when a caller actually
// opens that series, not eagerly for the whole catalog.
func (sc *Scheduler) FetchSeriesDetails(ctx context.Context, identity string, cred xtream.Credentials, seriesID int) (*store.SeriesDetails, error) {
	var details *store.SeriesDetails
	err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_series_info", func() error {
		var fetchErr error
		details, fetchErr = sc.client.GetSeriesInfo(ctx, cred, seriesID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if err := sc.repo.SaveSeriesDetails(identity, *details); err != nil {
		return nil, err
	}
	return details, nil
}
