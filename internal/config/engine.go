package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"loom/internal/objectstore"
)

// DispatchPolicy decides what happens when a transformation requests an
// operation the resolved variant does not declare.
type DispatchPolicy string

const (
	// DispatchProcess falls through to the default process operation.
	DispatchProcess DispatchPolicy = "process"
	// DispatchFail fails the transformation.
	DispatchFail DispatchPolicy = "fail"
)

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type Engine struct {
	ArtifactRoot     string             `koanf:"artifact_root"`
	MetricsPort      int                `koanf:"metrics_port"`
	UnknownOperation DispatchPolicy     `koanf:"unknown_operation"`
	Log              LogConfig          `koanf:"log"`
	Store            objectstore.Config `koanf:"store"`
}

// LoadEngineConfig merges YAML (if present) with env-vars
// (prefix `LOOM__`, delimiter `__`).
func LoadEngineConfig(path string) (Engine, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Engine{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Engine{}, fmt.Errorf("engine schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	_ = k.Load(env.Provider("LOOM__", "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LOOM__"))
	}), nil)

	var cfg Engine
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *Engine) {
	if c.ArtifactRoot == "" {
		c.ArtifactRoot = "store"
	}
	if c.UnknownOperation != DispatchProcess && c.UnknownOperation != DispatchFail {
		c.UnknownOperation = DispatchProcess
	}
	if c.Store.Region == "" {
		c.Store.Region = "us-east-1"
	}
	if c.Store.Endpoint == "" {
		c.Store.Endpoint = "localhost:9000"
	}
}
