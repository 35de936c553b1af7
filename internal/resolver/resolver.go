// Package resolver turns a transformation class name into a constructible
// parser variant, trying the remote script store first and the local builtin
// registry second.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loom/internal/logging"
	"loom/parser"
)

// ErrVariantNotFound marks a class that neither strategy could resolve.
// It fails one transformation, never the run.
var ErrVariantNotFound = errors.New("parser variant not found")

// Strategy resolves one class name to a variant factory. A strategy error
// means "resolution unavailable here"; the caller decides what to try next.
type Strategy interface {
	Resolve(ctx context.Context, class, module string, kwargs map[string]any) (parser.Factory, error)
}

type Resolver struct {
	remote Strategy // optional
	local  Strategy
}

func New(remote, local Strategy) *Resolver {
	return &Resolver{remote: remote, local: local}
}

// Resolve converts the class name to its module name and walks the
// strategies in fixed order: remote wins when both could serve the name.
func (r *Resolver) Resolve(ctx context.Context, class string, kwargs map[string]any) (parser.Factory, error) {
	if strings.TrimSpace(class) == "" {
		return nil, fmt.Errorf("%w: empty class name", ErrVariantNotFound)
	}
	module := ToModuleName(class)

	if r.remote != nil {
		f, err := r.remote.Resolve(ctx, class, module, kwargs)
		if err == nil {
			logging.L().Info("remote parser loaded", "module", module, "class", class)
			return f, nil
		}
		logging.L().Debug("remote resolution unavailable", "module", module, "err", err)
	}
	if r.local != nil {
		f, err := r.local.Resolve(ctx, class, module, kwargs)
		if err == nil {
			logging.L().Info("local parser loaded", "module", module, "class", class)
			return f, nil
		}
		logging.L().Debug("local resolution failed", "module", module, "err", err)
	}
	return nil, fmt.Errorf("%w: %s (module %s)", ErrVariantNotFound, class, module)
}

// Local resolves against the builtin parser registry.
type Local struct{}

func (Local) Resolve(_ context.Context, class, module string, _ map[string]any) (parser.Factory, error) {
	if _, err := parser.New(module, class); err != nil {
		return nil, err
	}
	return func() parser.Parser {
		p, _ := parser.New(module, class)
		return p
	}, nil
}
