package supervisor

import (
	"os"
	"path/filepath"
	"testing"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

func TestRunMaterializesSubStepCapture(t *testing.T) {
	tmpDir := t.TempDir()
	runners := []catalog.Runner{{ID: "r1", Script: "echo {config} >/dev/null; echo produced"}}

	s1 := catalog.Step{ID: "s1", RunnerID: "r1"}
	sub := &pipeline.ResolvedStep{ProcessorConfig: s1, Args: map[string]pipeline.StepArgument{}}

	s2 := catalog.Step{ID: "s2", RunnerID: "r1"}
	doc := pipeline.Document{Values: []pipeline.ResolvedStep{
		{ProcessorConfig: s2, Args: map[string]pipeline.StepArgument{
			"in": {Kind: pipeline.KindStep, Run: sub, Output: "stdout", Serialization: "json"},
		}},
	}}

	if err := Run(doc, runners, tmpDir); err != nil {
		t.Fatalf("Run: %v", err)
	}

	capturePath := filepath.Join(tmpDir, "s1.stdout")
	if _, err := os.Stat(capturePath); err != nil {
		t.Fatalf("expected capture file %s to exist: %v", capturePath, err)
	}
	configPath := filepath.Join(tmpDir, "s2.json")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file %s to exist: %v", configPath, err)
	}
}

func TestRunDefaultsTmpDirWhenUnset(t *testing.T) {
	runners := []catalog.Runner{{ID: "r1", Script: "true"}}
	doc := pipeline.Document{Values: []pipeline.ResolvedStep{
		{ProcessorConfig: catalog.Step{ID: "s1", RunnerID: "r1"}, Args: map[string]pipeline.StepArgument{}},
	}}
	if err := Run(doc, runners, ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
