// Package runner walks the ordered transformation list of one job,
// delegating each entry to the executor and logging per-step outcomes.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"loom/internal/executor"
	"loom/internal/logging"
	"loom/internal/spec"
	"loom/internal/telemetry"
)

// Summary aggregates a run: one outcome per transformation, in list order.
type Summary struct {
	RunID     string
	Outcomes  []executor.Outcome
	Succeeded int
	Failed    int
}

type Runner struct {
	exec *executor.Executor
}

func New(exec *executor.Executor) *Runner { return &Runner{exec: exec} }

// Run executes every transformation strictly in sequence. A failed entry is
// logged and counted; it never stops the loop.
func (r *Runner) Run(ctx context.Context, job spec.Job) Summary {
	sum := Summary{RunID: uuid.NewString()}
	log := logging.L().With("run_id", sum.RunID)
	log.Info("starting job execution", "transformations", len(job.Transformations))

	for i, t := range job.Transformations {
		log.Info("processing transformation", "index", i, "classname", t.Object.Classname)
		started := time.Now()
		out := r.exec.Execute(ctx, t)
		telemetry.ObserveTransformation(out.Success, time.Since(started))

		if out.Success {
			logging.Report("transformation completed", false,
				"run_id", sum.RunID, "index", i, "classname", t.Object.Classname)
			sum.Succeeded++
		} else {
			logging.Report("transformation failed", true,
				"run_id", sum.RunID, "index", i, "classname", t.Object.Classname, "reason", out.Message)
			sum.Failed++
		}
		sum.Outcomes = append(sum.Outcomes, out)
	}

	telemetry.ObserveRun()
	log.Info("job execution completed", "succeeded", sum.Succeeded, "failed", sum.Failed)
	return sum
}
