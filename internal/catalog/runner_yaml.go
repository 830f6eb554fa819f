package catalog

import "gopkg.in/yaml.v3"

// UnmarshalYAML accepts either "script" or "runnerScript" as the launch
// template key; the descriptor format documents the latter, the data model
// the former, and real fixtures in the wild use both.
func (r *Runner) UnmarshalYAML(node *yaml.Node) error {
	type plain Runner
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = Runner(p)

	if r.Script == "" {
		var alt struct {
			RunnerScript string `yaml:"runnerScript"`
		}
		if err := node.Decode(&alt); err != nil {
			return err
		}
		r.Script = alt.RunnerScript
	}
	return nil
}
