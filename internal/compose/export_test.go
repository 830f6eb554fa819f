package compose

import (
	"errors"
	"testing"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
	"flowctl/internal/supervisor"
)

func TestExportAbortsOnMissingDockerScript(t *testing.T) {
	runners := []catalog.Runner{{ID: "r1", Script: "echo {config}"}} // no Docker script
	doc := pipeline.Document{Values: []pipeline.ResolvedStep{
		{ProcessorConfig: catalog.Step{ID: "s1", RunnerID: "r1"}, Args: map[string]pipeline.StepArgument{}},
	}}

	_, err := Export(doc, nil, runners, t.TempDir())
	if !errors.Is(err, supervisor.ErrMissingDockerScript) {
		t.Fatalf("expected ErrMissingDockerScript, got %v", err)
	}
}

func TestExportEmitsOneServicePerStep(t *testing.T) {
	runners := []catalog.Runner{{ID: "r1", Script: "echo {config}", Docker: "run --rm app {config}"}}
	doc := pipeline.Document{Values: []pipeline.ResolvedStep{
		{ProcessorConfig: catalog.Step{ID: "s1", RunnerID: "r1"}, Args: map[string]pipeline.StepArgument{}},
	}}

	out, err := Export(doc, nil, runners, t.TempDir())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	svc, ok := out.Services["s1"]
	if !ok {
		t.Fatalf("expected service s1, got %v", out.Services)
	}
	if svc.Command == "" {
		t.Fatal("expected non-empty command")
	}
}
