// Package catalog holds the typed descriptors (Channel, Runner, Step) that
// make up flowctl's catalogue, and the JSON-schema compilation and glob
// loading that turn descriptor files on disk into validated in-memory
// catalogues.
package catalog

// Channel is a declared transport endpoint kind (e.g. a Kafka topic) with a
// set of pre-declared concrete configurations a step may pick from.
type Channel struct {
	ID             string           `yaml:"id" json:"id"`
	RequiredFields []string         `yaml:"requiredFields" json:"requiredFields"`
	Options        []map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
	Start          string           `yaml:"start,omitempty" json:"start,omitempty"`
	Stop           string           `yaml:"stop,omitempty" json:"stop,omitempty"`
	Docker         string           `yaml:"docker,omitempty" json:"docker,omitempty"`

	// Location is the directory containing the descriptor file. It is set by
	// the loader after parsing and is the cwd used for Start/Stop/Docker.
	Location string `yaml:"-" json:"-"`
}

// Runner is a recipe for launching a particular kind of step. Script is a
// shell template containing the literal tokens "{config}" and "{cwd}".
type Runner struct {
	ID                   string   `yaml:"id" json:"id"`
	Script               string   `yaml:"script" json:"script"`
	StopScript           string   `yaml:"stopScript,omitempty" json:"stopScript,omitempty"`
	Start                string   `yaml:"start,omitempty" json:"start,omitempty"`
	Stop                 string   `yaml:"stop,omitempty" json:"stop,omitempty"`
	Docker               string   `yaml:"docker,omitempty" json:"docker,omitempty"`
	CanUseChannel        []string `yaml:"canUseChannel" json:"canUseChannel"`
	CanUseSerialization  []string `yaml:"canUseSerialization" json:"canUseSerialization"`
	RequiredFields       []string `yaml:"requiredFields,omitempty" json:"requiredFields,omitempty"`

	Location string `yaml:"-" json:"-"`
}

// StepArg is one argument slot of a step descriptor as loaded from disk.
// Recognized Type values are "streamReader", "streamWriter", and any other
// string, which is treated as a literal argument.
type StepArg struct {
	ID          string `yaml:"id" json:"id"`
	Type        string `yaml:"type" json:"type"`
	Default     bool   `yaml:"default,omitempty" json:"default,omitempty"`
	Value       any    `yaml:"value,omitempty" json:"value,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// SourceIDs / TargetIDs back streamReader / streamWriter args respectively.
	// They are read from the descriptor's extra fields ("sourceIds" / "targetIds").
	SourceIDs []string `yaml:"sourceIds,omitempty" json:"sourceIds,omitempty"`
	TargetIDs []string `yaml:"targetIds,omitempty" json:"targetIds,omitempty"`

	// Extra carries any additional descriptor fields not modeled above.
	// MarshalYAML writes them back; the JSON encoding (and so the generated
	// pipeline document) does not include them.
	Extra map[string]any `yaml:"-" json:"-"`
}

// Step is one node in a pipeline, as loaded from a step-file path.
type Step struct {
	// ID is disambiguated on load: repeated use of the same step-file within
	// one generate invocation gets a "_N" suffix, N starting at 1.
	ID       string    `yaml:"id" json:"id"`
	RunnerID string    `yaml:"runnerId" json:"runnerId"`
	Config   any       `yaml:"config" json:"config"`
	Build    string    `yaml:"build,omitempty" json:"build,omitempty"`
	Args     []StepArg `yaml:"args" json:"args"`

	Location string `yaml:"-" json:"-"`
}
