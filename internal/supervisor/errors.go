package supervisor

import "errors"

var (
	// ErrMissingDockerScript is returned by the compose exporter when a
	// referenced runner is missing a docker script.
	ErrMissingDockerScript = errors.New("supervisor: missing docker script")
	// ErrCyclicStepReference is returned when resolving a "step" sub-argument
	// re-enters a step that is already being resolved in the same run.
	ErrCyclicStepReference = errors.New("supervisor: cyclic step reference")
)
