package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadChannelsFiltersNonConformingOptions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kafka.yaml", `
id: kafka
requiredFields: [topic]
options:
  - topic: t1
  - other: x
`)

	channels, err := LoadChannels(filepath.Join(dir, "*.yaml"))
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	if len(channels[0].Options) != 1 {
		t.Fatalf("expected 1 surviving option, got %d", len(channels[0].Options))
	}
	if channels[0].Options[0]["topic"] != "t1" {
		t.Fatalf("unexpected surviving option: %v", channels[0].Options[0])
	}
}

func TestLoadChannelsRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "id: dup\nrequiredFields: []\n")
	writeFile(t, dir, "b.yaml", "id: dup\nrequiredFields: []\n")

	if _, err := LoadChannels(filepath.Join(dir, "*.yaml")); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadRunnersDropsDanglingChannelReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "r.yaml", `
id: r1
script: "echo {config}"
canUseChannel: [nope]
canUseSerialization: [json]
`)

	runners, err := LoadRunners(filepath.Join(dir, "*.yaml"), nil)
	if err != nil {
		t.Fatalf("LoadRunners: %v", err)
	}
	if len(runners) != 0 {
		t.Fatalf("expected runner to be dropped, got %d", len(runners))
	}
}

func TestLoadRunnersAcceptsRunnerScriptKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "r.yaml", `
id: r1
runnerScript: "echo {config}"
canUseChannel: []
canUseSerialization: [json]
`)

	runners, err := LoadRunners(filepath.Join(dir, "*.yaml"), nil)
	if err != nil {
		t.Fatalf("LoadRunners: %v", err)
	}
	if len(runners) != 1 || runners[0].Script != "echo {config}" {
		t.Fatalf("expected runnerScript to populate Script, got %+v", runners)
	}
}

func TestLoadStepsDisambiguatesRepeatedFile(t *testing.T) {
	dir := t.TempDir()
	runner := Runner{ID: "r1", Script: "echo {config}"}

	path := writeFile(t, dir, "s.yaml", `
runnerId: r1
config: {}
args: []
`)

	steps, err := LoadSteps([]string{path, path}, []Runner{runner})
	if err != nil {
		t.Fatalf("LoadSteps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].ID == steps[1].ID {
		t.Fatalf("expected disambiguated ids, got %q twice", steps[0].ID)
	}
}

func TestLoadStepsDropsConfigFailingSchema(t *testing.T) {
	dir := t.TempDir()
	runner := Runner{ID: "r1", Script: "echo {config}", RequiredFields: []string{"host"}}

	path := writeFile(t, dir, "s.yaml", `
runnerId: r1
config: {}
args: []
`)

	steps, err := LoadSteps([]string{path}, []Runner{runner})
	if err != nil {
		t.Fatalf("LoadSteps: %v", err)
	}
	if len(steps) != 0 {
		t.Fatalf("expected step to be dropped for failing schema, got %d", len(steps))
	}
}

func TestLoadStepsErrorsOnEmptyPaths(t *testing.T) {
	if _, err := LoadSteps(nil, nil); err != ErrNoStepFiles {
		t.Fatalf("expected ErrNoStepFiles, got %v", err)
	}
}
