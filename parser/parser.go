package parser

import (
	"context"
	"errors"
	"fmt"
)

// Job binds one parser instance to a resolved local source file, a local
// output directory, and a snapshot of the transformation options. Instances
// are owned by a single transformation and never reused.
type Job struct {
	Source    string
	OutputDir string
	Options   map[string]any
}

// Parser is the capability set every transformation variant exposes.
// Operation dispatch goes through RunOperation only; there is no reflective
// member lookup.
type Parser interface {
	Configure(Job) error           // bind source, destination, options
	Process(context.Context) error // default operation
	Operations() []string          // declared named operations
	RunOperation(ctx context.Context, name string) error
}

// ErrUnsupportedOperation marks a RunOperation call with a name the variant
// does not declare.
var ErrUnsupportedOperation = errors.New("operation not supported")

// Unsupported builds the canonical RunOperation failure for an undeclared
// operation name.
func Unsupported(name string, available []string) error {
	return fmt.Errorf("%w: %q (available: %v)", ErrUnsupportedOperation, name, available)
}

/*──────── registry ───────*/

// Factory builds an unconfigured variant instance.
type Factory func() Parser

var reg = map[string]map[string]Factory{}

// Register adds a builtin variant under its module name (snake_case) and
// original class name. Called from each variant's package or from main.
func Register(module, class string, f Factory) {
	byClass, ok := reg[module]
	if !ok {
		byClass = map[string]Factory{}
		reg[module] = byClass
	}
	byClass[class] = f
}

// New returns a fresh instance of the variant registered under the given
// module and class names.
func New(module, class string) (Parser, error) {
	byClass, ok := reg[module]
	if !ok {
		return nil, fmt.Errorf("unknown parser module %q", module)
	}
	f, ok := byClass[class]
	if !ok {
		return nil, fmt.Errorf("class %q not found in parser module %q", class, module)
	}
	return f(), nil
}
