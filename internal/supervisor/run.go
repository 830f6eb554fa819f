package supervisor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

// tmpDirPrefix is the fixed prefix used when the caller leaves tmpDir unset.
const tmpDirPrefix = "flowctl-run-"

// runState carries the memoization and cycle-detection bookkeeping shared
// across every sub-step resolved while a pipeline document is run.
type runState struct {
	runners   map[string]catalog.Runner
	tmpDir    string
	memo      map[string]string // stepID -> materialised capture file path
	resolving map[string]bool
}

// Run executes doc: every ResolvedStep's arguments are resolved to concrete
// JSON values (recursing into "step" sub-arguments, which are spawned,
// awaited, and memoised before the referrer is ever spawned), written to
// "<tmpDir>/<stepId>.json", and the step's runner script is spawned with
// {config}/{cwd} substituted. All top-level children are started before any
// is awaited, then joined in document order.
func Run(doc pipeline.Document, runners []catalog.Runner, tmpDir string) error {
	if tmpDir == "" {
		dir, err := os.MkdirTemp("", tmpDirPrefix)
		if err != nil {
			return fmt.Errorf("supervisor: allocate tmp dir: %w", err)
		}
		tmpDir = dir
	}

	rs := &runState{
		runners:   indexRunners(runners),
		tmpDir:    tmpDir,
		memo:      map[string]string{},
		resolving: map[string]bool{},
	}

	type pending struct {
		step  pipeline.ResolvedStep
		child *Child
	}
	var children []pending

	for _, step := range doc.Values {
		configPath, err := rs.materializeArgs(step)
		if err != nil {
			return err
		}
		child, err := rs.spawnStep(step, configPath)
		if err != nil {
			return err
		}
		children = append(children, pending{step: step, child: child})
	}

	for _, p := range children {
		if p.child == nil {
			continue
		}
		if err := p.child.Wait(); err != nil {
			return fmt.Errorf("supervisor: step %s: %w", p.step.ProcessorConfig.ID, err)
		}
	}
	return nil
}

// materializeArgs resolves every argument of step to a concrete JSON value
// (recursing into sub-steps as needed) and writes the resulting map as
// pretty JSON to "<tmpDir>/<stepId>.json", returning that path.
func (rs *runState) materializeArgs(step pipeline.ResolvedStep) (string, error) {
	resolved := make(map[string]any, len(step.Args))
	for argID, arg := range step.Args {
		v, err := rs.resolveArg(arg)
		if err != nil {
			return "", fmt.Errorf("supervisor: step %s arg %s: %w", step.ProcessorConfig.ID, argID, err)
		}
		resolved[argID] = v
	}

	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return "", fmt.Errorf("supervisor: marshal args for step %s: %w", step.ProcessorConfig.ID, err)
	}
	path := filepath.Join(rs.tmpDir, step.ProcessorConfig.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("supervisor: write args for step %s: %w", step.ProcessorConfig.ID, err)
	}
	return path, nil
}

// resolveArg converts one StepArgument to its concrete JSON form. A "step"
// argument is resolved by recursively running the referenced sub-step (or
// reusing its memoised capture) and rewritten as a "file" argument.
func (rs *runState) resolveArg(arg pipeline.StepArgument) (any, error) {
	if arg.Kind != pipeline.KindStep {
		return arg, nil
	}

	sub := arg.Run
	id := sub.ProcessorConfig.ID
	if path, ok := rs.memo[id]; ok {
		return pipeline.StepArgument{Kind: pipeline.KindFile, Path: path, Serialization: arg.Serialization}, nil
	}
	if rs.resolving[id] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicStepReference, id)
	}
	rs.resolving[id] = true
	defer delete(rs.resolving, id)

	configPath, err := rs.materializeArgs(*sub)
	if err != nil {
		return nil, err
	}
	capture := OutputConfig{Stdout: arg.Output == "stdout", Stderr: arg.Output == "stderr"}
	child, err := rs.spawnStepCapturing(*sub, configPath, capture)
	if err != nil {
		return nil, err
	}
	if child != nil {
		if err := child.Wait(); err != nil {
			return nil, fmt.Errorf("supervisor: sub-step %s: %w", id, err)
		}
	}

	var output string
	if child != nil {
		if arg.Output == "stderr" {
			output = child.Stderr
		} else {
			output = child.Stdout
		}
	}
	path := filepath.Join(rs.tmpDir, id+"."+arg.Output)
	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return nil, fmt.Errorf("supervisor: write capture for %s: %w", id, err)
	}
	rs.memo[id] = path

	return pipeline.StepArgument{Kind: pipeline.KindFile, Path: path, Serialization: arg.Serialization}, nil
}

func (rs *runState) spawnStep(step pipeline.ResolvedStep, configPath string) (*Child, error) {
	return rs.spawnStepCapturing(step, configPath, OutputConfig{})
}

func (rs *runState) spawnStepCapturing(step pipeline.ResolvedStep, configPath string, out OutputConfig) (*Child, error) {
	s := step.ProcessorConfig
	runner, ok := rs.runners[s.RunnerID]
	if !ok {
		return nil, fmt.Errorf("supervisor: step %s: unknown runner %s", s.ID, s.RunnerID)
	}

	cwd := s.Location
	if cwd == "" {
		cwd = runner.Location
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("supervisor: resolve config path for %s: %w", s.ID, err)
	}
	absCwd, err := filepath.Abs(orDot(cwd))
	if err != nil {
		return nil, fmt.Errorf("supervisor: resolve cwd for %s: %w", s.ID, err)
	}

	script := substitutePlaceholders(runner.Script, absConfig, absCwd)
	child, err := Spawn(s.ID, script, cwd, out)
	if err != nil {
		fmt.Printf("%s %s | spawn failed: %v\n", erroLabel, s.ID, err)
		return nil, nil
	}
	return child, nil
}

// substitutePlaceholders replaces the literal tokens "{config}" and "{cwd}"
// in script with their single-quoted canonical absolute paths.
func substitutePlaceholders(script, configPath, cwd string) string {
	script = strings.ReplaceAll(script, "{config}", "'"+configPath+"'")
	script = strings.ReplaceAll(script, "{cwd}", "'"+cwd+"'")
	return script
}

func orDot(p string) string {
	if p == "" {
		return "."
	}
	return p
}
