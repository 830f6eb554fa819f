// Package pipeline implements the synthesiser (walking an ordered step list
// against the channel/runner catalogues to produce a resolved pipeline
// document) and the interactive prompter it drives.
package pipeline

import (
	"encoding/json"
	"fmt"

	"flowctl/internal/catalog"
)

// ChannelConfig is a concrete, resolved channel selection. It is embedded
// identically into both a writer's and its linked readers' argument slots.
type ChannelConfig struct {
	Type          string         `yaml:"type" json:"type"`
	Serialization string         `yaml:"serialization" json:"serialization"`
	Config        map[string]any `yaml:"config" json:"config"`
}

// Equal reports whether c and other carry the same type, serialization, and
// config (deep equality over Config's JSON-decoded values).
func (c ChannelConfig) Equal(other ChannelConfig) bool {
	if c.Type != other.Type || c.Serialization != other.Serialization {
		return false
	}
	a, _ := json.Marshal(c.Config)
	b, _ := json.Marshal(other.Config)
	return string(a) == string(b)
}

// StepArgument is the tagged variant used in the resolved pipeline document.
// Exactly one of the Kind-selected fields is populated; MarshalJSON/
// UnmarshalJSON encode it as a discriminated union on "type".
type StepArgument struct {
	Kind ArgKind

	// streamReader / streamWriter
	Fields map[string]ChannelConfig

	// file
	Path          string
	Serialization string

	// plain
	Value any

	// step
	Run    *ResolvedStep
	Output string // "stdout" or "stderr"

	// param
	Name string
}

// ArgKind discriminates the StepArgument union.
type ArgKind string

const (
	KindStreamReader ArgKind = "StreamReader"
	KindStreamWriter ArgKind = "StreamWriter"
	KindFile         ArgKind = "File"
	KindPlain        ArgKind = "Plain"
	KindStep         ArgKind = "Step"
	KindParam        ArgKind = "Param"
)

// ResolvedStep is one unit of the pipeline document: the loaded Step
// descriptor paired with its fully resolved argument map.
type ResolvedStep struct {
	ProcessorConfig catalog.Step
	Args            map[string]StepArgument
}

// Document is the hand-off format between generate and prepare/run/stop/docker.
type Document struct {
	Values []ResolvedStep
	Params []string
}

// --- JSON marshalling (discriminated union on StepArgument.Kind) -----------

func (a StepArgument) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindStreamReader, KindStreamWriter:
		return json.Marshal(struct {
			Type   string                   `json:"type"`
			Fields map[string]ChannelConfig `json:"fields"`
		}{string(a.Kind), a.Fields})
	case KindFile:
		return json.Marshal(struct {
			Type          string `json:"type"`
			Path          string `json:"path"`
			Serialization string `json:"serialization"`
		}{string(a.Kind), a.Path, a.Serialization})
	case KindPlain:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value any    `json:"value"`
		}{string(a.Kind), a.Value})
	case KindStep:
		return json.Marshal(struct {
			Type          string       `json:"type"`
			Run           ResolvedStep `json:"run"`
			Output        string       `json:"output"`
			Serialization string       `json:"serialization"`
		}{string(a.Kind), *a.Run, a.Output, a.Serialization})
	case KindParam:
		return json.Marshal(struct {
			Type string `json:"type"`
			Name string `json:"name"`
		}{string(a.Kind), a.Name})
	default:
		return nil, fmt.Errorf("pipeline: marshal StepArgument: unknown kind %q", a.Kind)
	}
}

func (a *StepArgument) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	a.Kind = ArgKind(head.Type)

	switch a.Kind {
	case KindStreamReader, KindStreamWriter:
		var body struct {
			Fields map[string]ChannelConfig `json:"fields"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		a.Fields = body.Fields
	case KindFile:
		var body struct {
			Path          string `json:"path"`
			Serialization string `json:"serialization"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		a.Path, a.Serialization = body.Path, body.Serialization
	case KindPlain:
		var body struct {
			Value any `json:"value"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		a.Value = body.Value
	case KindStep:
		var body struct {
			Run           ResolvedStep `json:"run"`
			Output        string       `json:"output"`
			Serialization string       `json:"serialization"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		a.Run, a.Output, a.Serialization = &body.Run, body.Output, body.Serialization
	case KindParam:
		var body struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		a.Name = body.Name
	default:
		return fmt.Errorf("pipeline: unmarshal StepArgument: unknown type %q", head.Type)
	}
	return nil
}

func (r ResolvedStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProcessorConfig catalog.Step            `json:"processorConfig"`
		Args            map[string]StepArgument `json:"args"`
	}{r.ProcessorConfig, r.Args})
}

func (r *ResolvedStep) UnmarshalJSON(data []byte) error {
	var body struct {
		ProcessorConfig catalog.Step            `json:"processorConfig"`
		Args            map[string]StepArgument `json:"args"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	r.ProcessorConfig, r.Args = body.ProcessorConfig, body.Args
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	values := d.Values
	if values == nil {
		values = []ResolvedStep{}
	}
	params := d.Params
	if params == nil {
		params = []string{}
	}
	return json.Marshal(struct {
		Values []ResolvedStep `json:"values"`
		Params []string       `json:"params"`
	}{values, params})
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var body struct {
		Values []ResolvedStep `json:"values"`
		Params []string       `json:"params"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	d.Values, d.Params = body.Values, body.Params
	return nil
}
