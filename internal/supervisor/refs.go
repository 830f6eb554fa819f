package supervisor

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/itchyny/gojq"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

// jqTypeScan is the compiled query used to discover every value reachable
// under a ".type" key anywhere in the pipeline document, mirroring the
// spec's "$..type" JSONPath description.
var jqTypeScan = mustCompile(".. | .type? // empty")

func mustCompile(expr string) *gojq.Code {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		panic(err)
	}
	return code
}

// ReferencedChannels returns the ids, in the order of channels, of every
// channel in channels whose id appears as a ".type" value anywhere in doc.
func ReferencedChannels(doc pipeline.Document, channels []catalog.Channel) ([]string, error) {
	normalized, err := normalize(doc)
	if err != nil {
		return nil, fmt.Errorf("supervisor: normalize document: %w", err)
	}

	found := map[string]bool{}
	iter := jqTypeScan.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("supervisor: scanning document: %w", err)
		}
		if s, ok := v.(string); ok {
			found[s] = true
		}
	}

	var refs []string
	for _, c := range channels {
		if found[c.ID] {
			refs = append(refs, c.ID)
		}
	}
	return refs, nil
}

// ReferencedRunners returns the ids, in first-seen order, of every runner
// referenced by a step anywhere in doc (including steps captured only as a
// "step" sub-argument of another step).
func ReferencedRunners(doc pipeline.Document) []string {
	seen := map[string]bool{}
	var order []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	var walk func(steps []pipeline.ResolvedStep)
	walk = func(steps []pipeline.ResolvedStep) {
		for _, rs := range steps {
			add(rs.ProcessorConfig.RunnerID)
			for _, argID := range sortedArgIDs(rs.Args) {
				arg := rs.Args[argID]
				if arg.Kind == pipeline.KindStep && arg.Run != nil {
					walk([]pipeline.ResolvedStep{*arg.Run})
				}
			}
		}
	}
	walk(doc.Values)
	return order
}

func sortedArgIDs(args map[string]pipeline.StepArgument) []string {
	ids := make([]string, 0, len(args))
	for id := range args {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
