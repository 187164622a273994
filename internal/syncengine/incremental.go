package syncengine

import (
	"context"

	"github.com/Nomadcxx/xtreamcached/internal/store"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

// The three incremental-sync stages diff the server's current ID list
// against what is cached locally. An ID the server no longer lists is
// removed; an ID the server lists that isn't cached yet is new; an ID
// both sides know about is re-upserted only if its timestamp is
// strictly newer than the family's last successful sync. The returned
// count folds new, updated, and removed rows into one total so
// SyncProgress reports the total volume of change for the stage.

func (sc *Scheduler) incrementalChannels(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var remote []store.Channel
	if err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_live_streams", func() error {
		var fetchErr error
		remote, fetchErr = sc.client.GetLiveStreams(ctx, cred, "")
		return fetchErr
	}); err != nil {
		return 0, err
	}

	localIDs, err := sc.repo.GetChannelIDs(identity)
	if err != nil {
		return 0, err
	}
	status, err := sc.store.GetSyncStatus(identity)
	if err != nil {
		return 0, err
	}

	serverIDs := make(map[int]struct{}, len(remote))
	var upsert []store.Channel
	for _, c := range remote {
		serverIDs[c.StreamID] = struct{}{}
		if _, cached := localIDs[c.StreamID]; !cached {
			upsert = append(upsert, c)
			continue
		}
		if isItemUpdated(c.Added, status.LastSyncChannels) {
			upsert = append(upsert, c)
		}
	}

	removed := idsNotIn(localIDs, serverIDs)

	return sc.applyIncremental(func() (int, error) { return sc.repo.SaveChannels(identity, upsert) },
		func() (int, error) { return sc.repo.DeleteChannels(identity, removed) })
}

func (sc *Scheduler) incrementalMovies(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var remote []store.Movie
	if err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_vod_streams", func() error {
		var fetchErr error
		remote, fetchErr = sc.client.GetVodStreams(ctx, cred, "")
		return fetchErr
	}); err != nil {
		return 0, err
	}

	localIDs, err := sc.repo.GetMovieIDs(identity)
	if err != nil {
		return 0, err
	}
	status, err := sc.store.GetSyncStatus(identity)
	if err != nil {
		return 0, err
	}

	serverIDs := make(map[int]struct{}, len(remote))
	var upsert []store.Movie
	for _, m := range remote {
		serverIDs[m.StreamID] = struct{}{}
		if _, cached := localIDs[m.StreamID]; !cached {
			upsert = append(upsert, m)
			continue
		}
		if isItemUpdated(m.Added, status.LastSyncMovies) {
			upsert = append(upsert, m)
		}
	}

	removed := idsNotIn(localIDs, serverIDs)

	return sc.applyIncremental(func() (int, error) { return sc.repo.SaveMovies(identity, upsert) },
		func() (int, error) { return sc.repo.DeleteMovies(identity, removed) })
}

func (sc *Scheduler) incrementalSeries(ctx context.Context, identity string, cred xtream.Credentials) (int, error) {
	var remote []store.Series
	if err := xtream.Do(ctx, sc.retryCfg, sc.logger, "get_series", func() error {
		var fetchErr error
		remote, fetchErr = sc.client.GetSeries(ctx, cred, "")
		return fetchErr
	}); err != nil {
		return 0, err
	}

	localIDs, err := sc.repo.GetSeriesIDs(identity)
	if err != nil {
		return 0, err
	}
	status, err := sc.store.GetSyncStatus(identity)
	if err != nil {
		return 0, err
	}

	serverIDs := make(map[int]struct{}, len(remote))
	var upsert []store.Series
	for _, s := range remote {
		serverIDs[s.SeriesID] = struct{}{}
		if _, cached := localIDs[s.SeriesID]; !cached {
			upsert = append(upsert, s)
			continue
		}
		if isItemUpdated(s.LastModified, status.LastSyncSeries) {
			upsert = append(upsert, s)
		}
	}

	removed := idsNotIn(localIDs, serverIDs)

	return sc.applyIncremental(func() (int, error) { return sc.repo.SaveSeries(identity, upsert) },
		func() (int, error) { return sc.repo.DeleteSeries(identity, removed) })
}

// applyIncremental runs the upsert then the delete, folding both
// counts into one total. Either is skipped (returns 0, nil) when its
// input slice is empty, so an all-new or all-removed diff still only
// issues one write.
func (sc *Scheduler) applyIncremental(upsert, remove func() (int, error)) (int, error) {
	n, err := upsert()
	if err != nil {
		return 0, err
	}
	removedN, err := remove()
	if err != nil {
		return 0, err
	}
	return n + removedN, nil
}

// idsNotIn always returns a non-nil slice (even when empty) since the
// Repository treats a nil ids argument to Delete as "delete every row
// for this identity" — very much not what an empty diff means here.
func idsNotIn(local map[int]struct{}, server map[int]struct{}) []int {
	out := []int{}
	for id := range local {
		if _, ok := server[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
