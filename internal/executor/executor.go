// Package executor runs one transformation and converts every failure into
// an outcome instead of letting it escape.
package executor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"loom/internal/artifact"
	"loom/internal/config"
	"loom/internal/resolver"
	"loom/internal/spec"
	"loom/parser"
)

// Outcome is the per-transformation result surfaced to the run log.
type Outcome struct {
	Success bool
	Message string
}

type Executor struct {
	locator *artifact.Locator
	res     *resolver.Resolver
	policy  config.DispatchPolicy
}

func New(locator *artifact.Locator, res *resolver.Resolver, policy config.DispatchPolicy) *Executor {
	return &Executor{locator: locator, res: res, policy: policy}
}

// Execute never propagates an error or panic past its boundary; the caller
// only ever sees an Outcome.
func (e *Executor) Execute(ctx context.Context, t spec.Transformation) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = failure("panic during transformation: %v", r)
		}
	}()

	source, err := e.locator.Resolve(t.Object.Origin)
	if err != nil {
		return failure("resolve origin %q: %v", t.Object.Origin, err)
	}
	outputDir, err := e.locator.Resolve(t.Object.Destiny)
	if err != nil {
		return failure("resolve destiny %q: %v", t.Object.Destiny, err)
	}

	factory, err := e.res.Resolve(ctx, t.Object.Classname, t.Kwargs)
	if err != nil {
		return failure("%v", err)
	}

	p := factory()
	if err := p.Configure(parser.Job{Source: source, OutputDir: outputDir, Options: t.Kwargs}); err != nil {
		return failure("configure %s: %v", t.Object.Classname, err)
	}

	if err := e.dispatch(ctx, p, t.Object.Operation); err != nil {
		return failure("%s: %v", t.Object.Classname, err)
	}
	return Outcome{Success: true, Message: fmt.Sprintf("%s completed", t.Object.Classname)}
}

// dispatch routes to the named operation when the variant declares it.
// An undeclared name follows the configured policy: fall through to the
// default process operation, or fail the transformation.
func (e *Executor) dispatch(ctx context.Context, p parser.Parser, operation string) error {
	op := strings.TrimSpace(operation)
	switch {
	case op == "" || op == "process":
		return p.Process(ctx)
	case slices.Contains(p.Operations(), op):
		return p.RunOperation(ctx, op)
	case e.policy == config.DispatchFail:
		return parser.Unsupported(op, p.Operations())
	default:
		return p.Process(ctx)
	}
}

func failure(format string, args ...any) Outcome {
	return Outcome{Success: false, Message: fmt.Sprintf(format, args...)}
}
