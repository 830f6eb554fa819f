package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// LoadChannels globs pattern, parses every matching descriptor file as a
// Channel, and returns those that loaded and validated. Unreadable or
// unparsable files are skipped with a warning (K1). Channel options that
// fail their requiredFields schema are dropped silently, per spec.
func LoadChannels(pattern string) ([]Channel, error) {
	files, err := glob(pattern)
	if err != nil {
		return nil, err
	}

	var channels []Channel
	seen := map[string]bool{}
	for _, f := range files {
		var ch Channel
		if err := readYAML(f, &ch); err != nil {
			fmt.Fprintf(os.Stderr, "warning: channel descriptor %s: %v\n", f, err)
			continue
		}
		if ch.ID == "" {
			fmt.Fprintf(os.Stderr, "warning: channel descriptor %s: missing id, skipped\n", f)
			continue
		}
		if seen[ch.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChannelID, ch.ID)
		}
		seen[ch.ID] = true

		ch.Location = filepath.Dir(f)

		sch, err := compileRequiredFields(ch.ID, ch.RequiredFields)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: channel %s: %v\n", ch.ID, err)
			continue
		}
		kept := ch.Options[:0]
		for _, opt := range ch.Options {
			if validates(sch, opt) {
				kept = append(kept, opt)
			}
		}
		ch.Options = kept

		channels = append(channels, ch)
	}
	return channels, nil
}

// LoadRunners globs pattern, parses every matching descriptor as a Runner,
// and drops (with a warning) any runner whose canUseChannel references a
// channel id not present in channels (K2), or whose script is empty.
func LoadRunners(pattern string, channels []Channel) ([]Runner, error) {
	files, err := glob(pattern)
	if err != nil {
		return nil, err
	}

	channelIDs := map[string]bool{}
	for _, c := range channels {
		channelIDs[c.ID] = true
	}

	var runners []Runner
	seen := map[string]bool{}
	for _, f := range files {
		var r Runner
		if err := readYAML(f, &r); err != nil {
			fmt.Fprintf(os.Stderr, "warning: runner descriptor %s: %v\n", f, err)
			continue
		}
		if r.ID == "" {
			fmt.Fprintf(os.Stderr, "warning: runner descriptor %s: missing id, skipped\n", f)
			continue
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRunnerID, r.ID)
		}
		if r.Script == "" {
			fmt.Fprintf(os.Stderr, "warning: runner %s: %v, skipped\n", r.ID, ErrEmptyScript)
			continue
		}

		dangling := ""
		for _, cid := range r.CanUseChannel {
			if !channelIDs[cid] {
				dangling = cid
				break
			}
		}
		if dangling != "" {
			fmt.Fprintf(os.Stderr, "warning: runner %s: %v: %s, skipped\n", r.ID, ErrUnknownChannel, dangling)
			continue
		}

		r.Location = filepath.Dir(f)
		seen[r.ID] = true
		runners = append(runners, r)
	}
	return runners, nil
}

// LoadSteps reads each step file in order, validates its config against the
// referenced runner's compiled schema, and disambiguates repeated use of the
// same step file with a "_N" suffix (N starting at 1, monotonic per base id).
// A step whose runner is missing (K4) or whose config fails validation (K3)
// is dropped with a warning; the pipeline continues with the remaining steps.
func LoadSteps(paths []string, runners []Runner) ([]Step, error) {
	if len(paths) == 0 {
		return nil, ErrNoStepFiles
	}

	runnerByID := make(map[string]Runner, len(runners))
	for _, r := range runners {
		runnerByID[r.ID] = r
	}

	schemaCache := map[string]*jsonschema.Schema{}
	counts := map[string]int{}

	var steps []Step
	for _, p := range paths {
		var s Step
		if err := readYAML(p, &s); err != nil {
			fmt.Fprintf(os.Stderr, "warning: step descriptor %s: %v\n", p, err)
			continue
		}

		runner, ok := runnerByID[s.RunnerID]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: step %s: missing runner %q, skipped\n", p, s.RunnerID)
			continue
		}

		sch, ok := schemaCache[runner.ID]
		if !ok {
			var err error
			sch, err = compileRequiredFields(runner.ID, runner.RequiredFields)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: step %s: %v, skipped\n", p, err)
				continue
			}
			schemaCache[runner.ID] = sch
		}
		if !validates(sch, s.Config) {
			fmt.Fprintf(os.Stderr, "warning: step %s: config does not satisfy runner %q schema, skipped\n", p, runner.ID)
			continue
		}

		base := s.ID
		if base == "" {
			base = baseNameNoExt(p)
		}
		counts[base]++
		s.ID = fmt.Sprintf("%s_%d", base, counts[base])
		s.Location = filepath.Dir(p)
		steps = append(steps, s)
	}
	return steps, nil
}

func glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func baseNameNoExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}
