package engine

import (
	"context"

	"loom/internal/config"
	"loom/internal/logging"
	"loom/internal/runner"
)

type Engine struct {
	jobPath string
	runner  *runner.Runner
}

// Run reads the job definition once and executes it. Only definition errors
// end the run early; everything else is contained per transformation, and a
// last-resort recover keeps the process boundary clean.
func (e *Engine) Run(ctx context.Context) (sum runner.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Report("unexpected error during job execution", true, "err", r)
			err = nil
		}
	}()

	job, err := config.LoadJobDefinition(e.jobPath)
	if err != nil {
		logging.Report("cannot load job definition", true, "path", e.jobPath, "err", err.Error())
		return runner.Summary{}, err
	}
	return e.runner.Run(ctx, job), nil
}
