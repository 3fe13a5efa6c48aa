package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/leondreamed/yabai-master-stack-plugin/internal/config"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/layout"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/lockfile"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/logging"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/runtimepath"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/state"
	"github.com/leondreamed/yabai-master-stack-plugin/internal/yabai"
)

// app holds everything one invocation needs, constructed once at process
// start and passed explicitly; the lock marker on disk is the only global
// resource.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	client    *yabai.Client
	store     *state.Store
	lock      *lockfile.Lock
}

func newApp() (*app, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Debug, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	var store *state.Store
	if cfg.StatePath != "" {
		store = state.NewStoreAt(cfg.StatePath)
	} else {
		store, err = state.NewStore()
		if err != nil {
			logCloser.Close()
			return nil, err
		}
	}

	store.SetDefaultCount(cfg.DefaultNumMasterWindows)

	lockPath := cfg.LockPath
	if lockPath == "" {
		lockPath, err = runtimepath.LockPath()
		if err != nil {
			logCloser.Close()
			return nil, err
		}
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		client:    yabai.NewClient(cfg.YabaiPath, logger),
		store:     store,
		lock:      lockfile.New(lockPath),
	}, nil
}

func (a *app) close() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// rebalanceFocusedSpace runs one locked convergence pass on the focused
// space. Clamping to the window count happens inside the pass; the stored
// count is always the requested one. Lock contention is an expected
// condition: it is logged and swallowed, and the next window event retries
// naturally.
func (a *app) rebalanceFocusedSpace(requested int) error {
	space, err := a.client.FocusedSpace()
	if err != nil {
		return err
	}

	rebalancer := layout.NewRebalancer(a.client, a.store, a.logger)
	err = a.lock.WithLock(func() error {
		return rebalancer.Update(space.ID, requested)
	})
	if errors.Is(err, lockfile.ErrAlreadyLocked) {
		a.logger.Info("lock held by another invocation, skipping", "space", space.ID)
		return nil
	}
	return err
}
