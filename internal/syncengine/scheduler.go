package syncengine

import (
	"context"
	"errors"
	"time"

	"github.com/Nomadcxx/xtreamcached/internal/logging"
	"github.com/Nomadcxx/xtreamcached/internal/store"
	"github.com/Nomadcxx/xtreamcached/internal/store/repository"
	"github.com/Nomadcxx/xtreamcached/internal/validator"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

// validateSyncInputs rejects an empty identity or an invalid
// credential triple before a sync is ever admitted into the registry;
// validation failures are never retried and never touch the database.
func validateSyncInputs(identity string, cred xtream.Credentials) error {
	if err := validator.Identity(identity); err != nil {
		return err
	}
	return validator.Credentials(cred.BaseURL, cred.Username, cred.Password)
}

const fullSyncStages = 6
const incrementalSyncStages = 3

// Scheduler is the Sync Scheduler: it drives full and incremental
// syncs for any number of identities concurrently, admitting at most
// one active run per identity.
type Scheduler struct {
	store     *store.Store
	repo      *repository.Repository
	client    *xtream.Client
	logger    *logging.Logger
	retryCfg  xtream.RetryConfig
	registry  *registry
}

// NewScheduler wires a Scheduler over an already-open Store, its
// Repository, and a Remote Client. retryCfg governs every fetch this
// Scheduler issues.
func NewScheduler(s *store.Store, repo *repository.Repository, client *xtream.Client, logger *logging.Logger, retryCfg xtream.RetryConfig) *Scheduler {
	return &Scheduler{
		store:    s,
		repo:     repo,
		client:   client,
		logger:   logger,
		retryCfg: retryCfg,
		registry: newRegistry(),
	}
}

// ShouldSync reports whether identity is due for a sync: auto-sync
// must be enabled, and either no family has ever synced or the most
// recently synced family was synced at least sync_interval_hours ago.
func (sc *Scheduler) ShouldSync(identity string) (bool, error) {
	settings, err := sc.store.GetSyncSettings(identity)
	if err != nil {
		return false, err
	}
	if !settings.AutoSyncEnabled {
		return false, nil
	}

	status, err := sc.store.GetSyncStatus(identity)
	if err != nil {
		return false, err
	}

	latest := latestOf(status.LastSyncChannels, status.LastSyncMovies, status.LastSyncSeries)
	if latest == nil {
		return true, nil
	}
	return time.Since(*latest) >= time.Duration(settings.SyncIntervalHours)*time.Hour, nil
}

// CancelSync trips the cancellation handle for identity's active run,
// if any.
func (sc *Scheduler) CancelSync(identity string) error {
	return sc.registry.cancel(identity)
}

// IsSyncing reports whether identity currently has an admitted run.
func (sc *Scheduler) IsSyncing(identity string) bool {
	return sc.registry.isActive(identity)
}

// runState accumulates the outcome of one sync run across its stages.
type runState struct {
	channelsSynced int
	moviesSynced   int
	seriesSynced   int
	errs           []string
	aborted        bool // set when an AuthError short-circuits the remaining stages
}

func (r *runState) recordStageError(label string, err error) {
	r.errs = append(r.errs, label+": "+err.Error())
	var authErr *xtream.AuthError
	if errors.As(err, &authErr) {
		r.aborted = true
	}
}

func (r *runState) finalStatus() Status {
	if len(r.errs) == 0 {
		return StatusCompleted
	}
	if r.channelsSynced > 0 || r.moviesSynced > 0 || r.seriesSynced > 0 {
		return StatusPartial
	}
	return StatusFailed
}

// StartFullSync admits identity into the active-syncs registry and
// runs the six-stage pipeline: channel categories, channels, movie
// categories, movies, series categories, series. A stage failure is
// recorded but does not abort later stages, except an AuthError, which
// ends the run immediately since no later stage can succeed without
// valid credentials.
func (sc *Scheduler) StartFullSync(ctx context.Context, identity string, cred xtream.Credentials, sink ProgressSink) (*SyncProgress, error) {
	if err := validateSyncInputs(identity, cred); err != nil {
		return nil, err
	}

	runCtx, cancel, token, err := sc.registry.register(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer sc.registry.unregister(identity)

	state := &runState{}
	sc.setStatus(identity, StatusSyncing, 0, state)

	type stage struct {
		label string
		run   func() (int, error)
	}
	stages := []stage{
		{"channel categories", func() (int, error) { return sc.syncChannelCategories(runCtx, identity, cred) }},
		{"channels", func() (int, error) { return sc.syncChannels(runCtx, identity, cred) }},
		{"movie categories", func() (int, error) { return sc.syncMovieCategories(runCtx, identity, cred) }},
		{"movies", func() (int, error) { return sc.syncMovies(runCtx, identity, cred) }},
		{"series categories", func() (int, error) { return sc.syncSeriesCategories(runCtx, identity, cred) }},
		{"series", func() (int, error) { return sc.syncSeries(runCtx, identity, cred) }},
	}

	for i, st := range stages {
		pct := calculateProgress(i, fullSyncStages, 0)
		sc.emitProgress(sink, identity, StatusSyncing, pct, st.label, state)
		sc.setStatus(identity, StatusSyncing, pct, state)

		n, err := st.run()
		if err != nil {
			state.recordStageError(st.label, err)
			sc.logger.Warn("syncengine", "stage failed", logging.F("identity", identity), logging.F("token", token), logging.F("stage", st.label), logging.F("err", err.Error()))
			if state.aborted {
				break
			}
			continue
		}

		switch st.label {
		case "channels":
			state.channelsSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "channels")
		case "movies":
			state.moviesSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "movies")
		case "series":
			state.seriesSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "series")
		}
	}

	final := state.finalStatus()
	sc.setStatus(identity, final, 100, state)
	ev := SyncProgress{
		Identity:       identity,
		Status:         final,
		Progress:       100,
		CurrentStep:    "done",
		ChannelsSynced: state.channelsSynced,
		MoviesSynced:   state.moviesSynced,
		SeriesSynced:   state.seriesSynced,
		Errors:         state.errs,
	}
	sink.send(ev)
	return &ev, nil
}

// StartIncrementalSync admits identity and runs the three-stage
// incremental pipeline, diffing server IDs against locally cached IDs
// per family.
func (sc *Scheduler) StartIncrementalSync(ctx context.Context, identity string, cred xtream.Credentials, sink ProgressSink) (*SyncProgress, error) {
	if err := validateSyncInputs(identity, cred); err != nil {
		return nil, err
	}

	runCtx, cancel, _, err := sc.registry.register(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer sc.registry.unregister(identity)

	state := &runState{}
	sc.setStatus(identity, StatusSyncing, 0, state)

	type stage struct {
		label string
		run   func() (int, error)
	}
	stages := []stage{
		{"channels", func() (int, error) { return sc.incrementalChannels(runCtx, identity, cred) }},
		{"movies", func() (int, error) { return sc.incrementalMovies(runCtx, identity, cred) }},
		{"series", func() (int, error) { return sc.incrementalSeries(runCtx, identity, cred) }},
	}

	for i, st := range stages {
		pct := calculateProgress(i, incrementalSyncStages, 0)
		sc.emitProgress(sink, identity, StatusSyncing, pct, st.label, state)
		sc.setStatus(identity, StatusSyncing, pct, state)

		n, err := st.run()
		if err != nil {
			state.recordStageError(st.label, err)
			if state.aborted {
				break
			}
			continue
		}

		switch st.label {
		case "channels":
			state.channelsSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "channels")
		case "movies":
			state.moviesSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "movies")
		case "series":
			state.seriesSynced = n
			sc.store.UpdateLastSyncTimestamp(identity, "series")
		}
	}

	final := state.finalStatus()
	sc.setStatus(identity, final, 100, state)
	ev := SyncProgress{
		Identity:       identity,
		Status:         final,
		Progress:       100,
		CurrentStep:    "done",
		ChannelsSynced: state.channelsSynced,
		MoviesSynced:   state.moviesSynced,
		SeriesSynced:   state.seriesSynced,
		Errors:         state.errs,
	}
	sink.send(ev)
	return &ev, nil
}

func (sc *Scheduler) emitProgress(sink ProgressSink, identity string, status Status, pct int, step string, state *runState) {
	sink.send(SyncProgress{
		Identity:       identity,
		Status:         status,
		Progress:       pct,
		CurrentStep:    step,
		ChannelsSynced: state.channelsSynced,
		MoviesSynced:   state.moviesSynced,
		SeriesSynced:   state.seriesSynced,
		Errors:         append([]string(nil), state.errs...),
	})
}

func (sc *Scheduler) setStatus(identity string, status Status, pct int, state *runState) {
	var msg *string
	if len(state.errs) > 0 {
		m := state.errs[len(state.errs)-1]
		msg = &m
	}
	sc.store.UpdateSyncStatus(&store.SyncStatus{
		Identity:       identity,
		Status:         string(status),
		Progress:       pct,
		ChannelsSynced: state.channelsSynced,
		MoviesSynced:   state.moviesSynced,
		SeriesSynced:   state.seriesSynced,
		LastMessage:    msg,
	})
}
