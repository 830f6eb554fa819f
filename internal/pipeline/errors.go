package pipeline

import "errors"

var (
	// ErrNoCandidate is returned when a streamReader source has no compatible
	// open writer and "Other source" was not selected. Fatal (K5).
	ErrNoCandidate = errors.New("pipeline: no compatible writer for stream source")
	// ErrOptionsExhausted is returned when a channel has no options left to
	// offer. Fatal (K5).
	ErrOptionsExhausted = errors.New("pipeline: channel has no options left")
	// ErrDuplicateStepID is returned when two steps in one generate
	// invocation resolve to the same id. Fatal (K5).
	ErrDuplicateStepID = errors.New("pipeline: duplicate step id")
	// ErrCyclicReference names a process sub-argument that re-enters a step
	// already being resolved. Synthesize does not return it: a process
	// argument can only pick a step from the done history.
	ErrCyclicReference = errors.New("pipeline: cyclic step reference")
	// ErrNoSuchStep is returned when a process argument names a step not yet
	// in the synthesiser's done history.
	ErrNoSuchStep = errors.New("pipeline: no such earlier step")
)
