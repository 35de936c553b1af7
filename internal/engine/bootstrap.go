package engine

import (
	"context"
	"fmt"

	"loom/internal/artifact"
	"loom/internal/config"
	"loom/internal/executor"
	"loom/internal/logging"
	"loom/internal/objectstore"
	"loom/internal/resolver"
	"loom/internal/runner"
	"loom/internal/telemetry"
)

type Config struct {
	JobPath    string
	ConfigPath string // optional loom.yml
}

func Bootstrap(_ context.Context, cfg Config) (*Engine, error) {
	ec, err := config.LoadEngineConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logging.Configure(logging.Options{Level: ec.Log.Level, JSON: ec.Log.JSON})
	telemetry.Expose(ec.MetricsPort)

	// An unusable object store only disables remote resolution; builtin
	// variants keep working.
	var store objectstore.Store
	if s, err := objectstore.NewMinioStore(ec.Store); err != nil {
		logging.L().Debug("object store unavailable, remote resolution disabled", "err", err)
	} else {
		store = s
	}

	locator := artifact.NewLocator(ec.ArtifactRoot)
	res := resolver.New(resolver.NewRemote(artifact.NewFetcher(store)), resolver.Local{})
	exec := executor.New(locator, res, ec.UnknownOperation)

	return &Engine{
		jobPath: cfg.JobPath,
		runner:  runner.New(exec),
	}, nil
}
