package main

import (
	"fmt"

	"github.com/Nomadcxx/xtreamcached/internal/config"
	"github.com/Nomadcxx/xtreamcached/internal/logging"
	"github.com/Nomadcxx/xtreamcached/internal/store"
	"github.com/Nomadcxx/xtreamcached/internal/store/repository"
	"github.com/Nomadcxx/xtreamcached/internal/syncengine"
	"github.com/Nomadcxx/xtreamcached/internal/xtream"
)

// app bundles the wired-up engine components one CLI invocation needs.
type app struct {
	cfg       *config.Config
	store     *store.Store
	repo      *repository.Repository
	scheduler *syncengine.Scheduler
	logger    *logging.Logger
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	s, err := store.OpenPath(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	repo := repository.New(s, logger)
	client := xtream.NewClient(xtream.Config{Timeout: cfg.Sync.RequestTimeout})
	retryCfg := xtream.RetryConfig{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelayMs:    cfg.Retry.InitialDelayMs,
		MaxDelayMs:        cfg.Retry.MaxDelayMs,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	}
	scheduler := syncengine.NewScheduler(s, repo, client, logger, retryCfg)

	return &app{cfg: cfg, store: s, repo: repo, scheduler: scheduler, logger: logger}, nil
}

func (a *app) Close() {
	a.store.Close()
	a.logger.Close()
}
