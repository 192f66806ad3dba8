package main

import (
	"context"
	"fmt"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/config"
	"github.com/litescript/ls-cluster/internal/logging"
	"github.com/litescript/ls-cluster/internal/scene"
	"github.com/litescript/ls-cluster/internal/state"
	"github.com/litescript/ls-cluster/internal/watch"
)

// app wires the loader, scene builder and state manager together.
type app struct {
	cfg    config.Config
	logger *logging.Logger
	loader *cluster.Loader
	state  *state.Manager
}

func newApp(opts *rootOptions) *app {
	stateCfg := state.DefaultConfig()
	stateCfg.MaxBatchSize = opts.cfg.MaxBatchSize

	return &app{
		cfg:    opts.cfg,
		logger: opts.logger,
		loader: cluster.NewLoader(opts.cfg.DataPath),
		state:  state.NewManager(stateCfg),
	}
}

// reload loads the data file, builds the scene and stores the result. A
// failed load is recorded in state and returned.
func (a *app) reload(ctx context.Context) error {
	a.logger.Debug("Loading %s", a.loader.Path())

	res := a.loader.Load(ctx)
	if res.Error != nil {
		a.logger.Error("Load failed: %v", res.Error)
		a.state.Update(res, nil, scene.Plan{})
		return res.Error
	}

	opts := append(a.cfg.BuilderOptions(), scene.WithLogger(a.logger))
	sc, plan, err := scene.Record(ctx, res.Buckets, opts...)
	if err != nil {
		res.Error = fmt.Errorf("build scene: %w", err)
		a.logger.Error("%v", res.Error)
		a.state.Update(res, nil, scene.Plan{})
		return res.Error
	}

	if n := res.Buckets.UnrecognizedCount(); n > 0 {
		a.logger.Warn("%d rows with unrecognized type code skipped", n)
	}
	a.logger.Info("Loaded %d stars from %s in %v", len(res.Cluster.Stars), res.Cluster.Source, res.Duration)

	a.state.Update(res, sc, plan)
	return nil
}

// watchLoop reloads on every debounced change to the data file until ctx is
// done or the watcher stops. onChange runs after each reload.
func (a *app) watchLoop(ctx context.Context, w *watch.Watcher, onChange func(state.Snapshot, error)) {
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Watch loop shutting down")
			return
		case change, ok := <-w.Changes:
			if !ok {
				return
			}
			a.logger.Info("Data file %s", change.Kind)
			err := a.reload(ctx)
			onChange(a.state.Snapshot(), err)
		}
	}
}

// startWatcher starts watching the configured data file.
func (a *app) startWatcher() (*watch.Watcher, error) {
	w, err := watch.NewWatcher(a.cfg.DataPath,
		watch.WithDebounce(a.cfg.Watch.Debounce),
		watch.WithLogger(a.logger.With("file", a.cfg.DataPath)),
	)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", a.cfg.DataPath, err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("watch %s: %w", a.cfg.DataPath, err)
	}
	return w, nil
}
