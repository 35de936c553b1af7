package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"loom/internal/artifact"
	"loom/internal/plugin"
	"loom/parser"
)

// Kwargs keys that enable remote resolution for a transformation.
const (
	KwargScriptsBucket = "scripts_bucket"
	KwargScriptsPath   = "scripts_path"
)

const descriptorSchema = "v1"

// descriptor is the variant manifest stored next to the plugin program in
// the scripts bucket, under <module_name>.yaml.
type descriptor struct {
	SchemaVersion string   `yaml:"schema_version"`
	Classname     string   `yaml:"classname"`
	Operations    []string `yaml:"operations"`
	Program       string   `yaml:"program"`
}

// Remote fetches a variant descriptor and its program from the object store
// and wraps the program in the exec plugin boundary. Remote code never runs
// in-process.
type Remote struct {
	fetcher *artifact.Fetcher
}

func NewRemote(fetcher *artifact.Fetcher) *Remote {
	return &Remote{fetcher: fetcher}
}

func (r *Remote) Resolve(ctx context.Context, class, module string, kwargs map[string]any) (parser.Factory, error) {
	bucket, _ := kwargs[KwargScriptsBucket].(string)
	prefix, _ := kwargs[KwargScriptsPath].(string)
	if bucket == "" || prefix == "" {
		return nil, errors.New("resolver: remote scripts location not configured")
	}

	descPath, err := r.fetcher.Fetch(ctx, bucket, prefix+module+".yaml")
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(descPath)
	if err != nil {
		return nil, err
	}
	var desc descriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("resolver: malformed descriptor for %s: %w", module, err)
	}
	if desc.SchemaVersion != "" && desc.SchemaVersion != descriptorSchema {
		return nil, fmt.Errorf("resolver: descriptor schema %q not supported (want %q)", desc.SchemaVersion, descriptorSchema)
	}
	if desc.Classname != class {
		return nil, fmt.Errorf("resolver: class %q not found in remote module %s", class, module)
	}
	if desc.Program == "" {
		return nil, fmt.Errorf("resolver: descriptor for %s names no program", module)
	}

	program, err := r.fetcher.Fetch(ctx, bucket, prefix+desc.Program)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(program, 0o700); err != nil {
		return nil, fmt.Errorf("resolver: mark program executable: %w", err)
	}
	ops := desc.Operations
	return func() parser.Parser { return plugin.NewExecParser(program, ops) }, nil
}
