package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"loom/internal/spec"
)

const SupportedSchema = "v1"

var (
	// ErrDefinitionNotFound and ErrDefinitionMalformed are fatal to the
	// whole run; every other failure is contained per transformation.
	ErrDefinitionNotFound  = errors.New("job definition not found")
	ErrDefinitionMalformed = errors.New("job definition malformed")
)

// LoadJobDefinition reads and parses a job definition file. The document is
// YAML, which also accepts the JSON form of the same structure.
func LoadJobDefinition(path string) (spec.Job, error) {
	var job spec.Job
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return job, fmt.Errorf("%w: %s", ErrDefinitionNotFound, path)
	}
	if err != nil {
		return job, fmt.Errorf("%w: %s: %v", ErrDefinitionNotFound, path, err)
	}
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return job, fmt.Errorf("%w: %v", ErrDefinitionMalformed, err)
	}
	if job.SchemaVersion == "" {
		job.SchemaVersion = SupportedSchema
	}
	if job.SchemaVersion != SupportedSchema {
		return job, fmt.Errorf("%w: schema_version %q not supported (want %q)",
			ErrDefinitionMalformed, job.SchemaVersion, SupportedSchema)
	}
	return job, nil
}
