package runner

import (
	"context"
	"testing"

	"loom/internal/artifact"
	"loom/internal/config"
	"loom/internal/executor"
	"loom/internal/resolver"
	"loom/internal/spec"
	"loom/parser"
)

type countingParser struct{ calls *int }

func (c countingParser) Configure(parser.Job) error { return nil }
func (c countingParser) Process(context.Context) error {
	*c.calls++
	return nil
}
func (c countingParser) Operations() []string                       { return []string{"process"} }
func (c countingParser) RunOperation(context.Context, string) error { return nil }

func jobWith(classes ...string) spec.Job {
	var job spec.Job
	for _, class := range classes {
		var t spec.Transformation
		t.Object = spec.Object{
			Origin:    "store://in/a.bin",
			Destiny:   "store://out/",
			Classname: class,
		}
		job.Transformations = append(job.Transformations, t)
	}
	return job
}

func TestRun_ContinuesPastFailure(t *testing.T) {
	calls := 0
	parser.Register("runner_ok_parser", "RunnerOkParser", func() parser.Parser {
		return countingParser{calls: &calls}
	})

	exec := executor.New(
		artifact.NewLocator(t.TempDir()),
		resolver.New(nil, resolver.Local{}),
		config.DispatchProcess,
	)
	sum := New(exec).Run(context.Background(), jobWith(
		"RunnerOkParser",
		"NoSuchParser", // deliberately unresolvable
		"RunnerOkParser",
	))

	if len(sum.Outcomes) != 3 {
		t.Fatalf("want 3 outcomes, got %d", len(sum.Outcomes))
	}
	if sum.Outcomes[0].Success != true || sum.Outcomes[1].Success != false || sum.Outcomes[2].Success != true {
		t.Fatalf("unexpected outcome pattern: %+v", sum.Outcomes)
	}
	if sum.Succeeded != 2 || sum.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if calls != 2 {
		t.Fatalf("entries after the failure must still run, calls=%d", calls)
	}
	if sum.RunID == "" {
		t.Fatal("run must carry an id")
	}
}

func TestRun_EmptyJob(t *testing.T) {
	exec := executor.New(
		artifact.NewLocator(t.TempDir()),
		resolver.New(nil, resolver.Local{}),
		config.DispatchProcess,
	)
	sum := New(exec).Run(context.Background(), spec.Job{})
	if len(sum.Outcomes) != 0 || sum.Failed != 0 || sum.Succeeded != 0 {
		t.Fatalf("unexpected summary for empty job: %+v", sum)
	}
}
