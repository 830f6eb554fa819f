// Package compose renders a pipeline document as a container-compose
// document describing the same topology, for environments that prefer to
// run the pipeline under docker/podman compose instead of flowctl's own
// supervisor.
package compose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
	"flowctl/internal/supervisor"
)

// Service is one emitted compose service.
type Service struct {
	Command    string `yaml:"command"`
	WorkingDir string `yaml:"working_dir,omitempty"`
}

// Document is the top-level container-compose shape flowctl emits.
type Document struct {
	Services map[string]Service `yaml:"services"`
}

// Export builds the compose document for doc. It requires every referenced
// runner to carry a non-empty Docker script; if any doesn't, it reports the
// offending ids to stderr and returns an error without writing anything.
// Step argument files are written under tmpDir as a side effect, since the
// emitted commands reference them via {config}/{cwd} substitution.
func Export(doc pipeline.Document, channels []catalog.Channel, runners []catalog.Runner, tmpDir string) (Document, error) {
	channelByID := make(map[string]catalog.Channel, len(channels))
	for _, c := range channels {
		channelByID[c.ID] = c
	}
	runnerByID := make(map[string]catalog.Runner, len(runners))
	for _, r := range runners {
		runnerByID[r.ID] = r
	}

	refRunners := supervisor.ReferencedRunners(doc)
	var missing []string
	for _, id := range refRunners {
		if runnerByID[id].Docker == "" {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "compose: runners missing docker script: %s\n", strings.Join(missing, ", "))
		return Document{}, fmt.Errorf("%w: %s", supervisor.ErrMissingDockerScript, strings.Join(missing, ", "))
	}

	refChannels, err := supervisor.ReferencedChannels(doc, channels)
	if err != nil {
		return Document{}, err
	}

	services := map[string]Service{}

	for _, id := range refChannels {
		ch := channelByID[id]
		if ch.Docker == "" {
			continue
		}
		services[ch.ID] = Service{Command: ch.Docker, WorkingDir: ch.Location}
	}

	if tmpDir == "" {
		dir, err := os.MkdirTemp("", "flowctl-compose-")
		if err != nil {
			return Document{}, fmt.Errorf("compose: allocate tmp dir: %w", err)
		}
		tmpDir = dir
	}

	for _, step := range doc.Values {
		s := step.ProcessorConfig
		runner := runnerByID[s.RunnerID]

		data, err := json.MarshalIndent(flattenArgs(step), "", "  ")
		if err != nil {
			return Document{}, fmt.Errorf("compose: marshal args for step %s: %w", s.ID, err)
		}
		configPath := filepath.Join(tmpDir, s.ID+".json")
		if err := os.WriteFile(configPath, data, 0o644); err != nil {
			return Document{}, fmt.Errorf("compose: write args for step %s: %w", s.ID, err)
		}

		cwd := s.Location
		if cwd == "" {
			cwd = runner.Location
		}
		absConfig, err := filepath.Abs(configPath)
		if err != nil {
			return Document{}, fmt.Errorf("compose: resolve config path for %s: %w", s.ID, err)
		}
		absCwd := cwd
		if absCwd == "" {
			absCwd = "."
		}
		if abs, err := filepath.Abs(absCwd); err == nil {
			absCwd = abs
		}

		cmd := strings.ReplaceAll(runner.Docker, "{config}", "'"+absConfig+"'")
		cmd = strings.ReplaceAll(cmd, "{cwd}", "'"+absCwd+"'")
		services[s.ID] = Service{Command: cmd, WorkingDir: cwd}
	}

	return Document{Services: services}, nil
}

// flattenArgs converts a ResolvedStep's args to the plain map written to its
// config file. Unlike the file Run writes, "step" sub-arguments are kept
// as they are rather than rewritten to "file" arguments.
func flattenArgs(step pipeline.ResolvedStep) map[string]any {
	out := make(map[string]any, len(step.Args))
	for id, a := range step.Args {
		out[id] = a
	}
	return out
}

// Write renders doc as YAML to w.
func Write(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
