// Package spec holds the job-definition file schema.
package spec

// Object names the artifacts and parser variant of one transformation.
type Object struct {
	Origin    string `yaml:"origin"`
	Destiny   string `yaml:"destiny"`
	Classname string `yaml:"classname"`
	// Operation selects a named capability of the variant; empty means the
	// default process operation.
	Operation string `yaml:"operation"`
}

// Transformation is one entry of the ordered work list. Kwargs carry
// per-transformation options, including the resolver keys scripts_bucket
// and scripts_path that enable remote resolution.
type Transformation struct {
	Object Object         `yaml:"object"`
	Kwargs map[string]any `yaml:"kwargs"`
}

// Job is the parsed job definition: read once per run, immutable after.
type Job struct {
	SchemaVersion   string           `yaml:"schema_version"`
	Transformations []Transformation `yaml:"transformations"`
}
