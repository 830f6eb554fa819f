package catalog

import "gopkg.in/yaml.v3"

// knownStepArgFields lists the StepArg keys that are modeled explicitly;
// anything else decoded from a step-arg mapping lands in StepArg.Extra.
var knownStepArgFields = map[string]bool{
	"id": true, "type": true, "default": true, "value": true,
	"description": true, "sourceIds": true, "targetIds": true,
}

// UnmarshalYAML decodes a StepArg, keeping any descriptor fields beyond the
// modeled ones (id, type, default, value, description, sourceIds, targetIds)
// in Extra, which MarshalYAML merges back into the mapping.
func (s *StepArg) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if v, ok := raw["id"].(string); ok {
		s.ID = v
	}
	if v, ok := raw["type"].(string); ok {
		s.Type = v
	}
	if v, ok := raw["default"].(bool); ok {
		s.Default = v
	}
	if v, ok := raw["value"]; ok {
		s.Value = v
	}
	if v, ok := raw["description"].(string); ok {
		s.Description = v
	}
	s.SourceIDs = toStringSlice(raw["sourceIds"])
	s.TargetIDs = toStringSlice(raw["targetIds"])

	for k, v := range raw {
		if knownStepArgFields[k] {
			continue
		}
		if s.Extra == nil {
			s.Extra = map[string]any{}
		}
		s.Extra[k] = v
	}
	return nil
}

// MarshalYAML reconstitutes the original mapping shape from a StepArg,
// merging Extra back alongside the modeled fields.
func (s StepArg) MarshalYAML() (any, error) {
	out := map[string]any{
		"id":   s.ID,
		"type": s.Type,
	}
	if s.Default {
		out["default"] = s.Default
	}
	if s.Value != nil {
		out["value"] = s.Value
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.SourceIDs) > 0 {
		out["sourceIds"] = s.SourceIDs
	}
	if len(s.TargetIDs) > 0 {
		out["targetIds"] = s.TargetIDs
	}
	for k, v := range s.Extra {
		out[k] = v
	}
	return out, nil
}

func toStringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
