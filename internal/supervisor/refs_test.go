package supervisor

import (
	"reflect"
	"testing"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

func TestReferencedChannelsScansNestedType(t *testing.T) {
	channels := []catalog.Channel{{ID: "kafka"}, {ID: "unused"}}
	doc := pipeline.Document{
		Values: []pipeline.ResolvedStep{{
			ProcessorConfig: catalog.Step{ID: "s1", RunnerID: "r1"},
			Args: map[string]pipeline.StepArgument{
				"out": {
					Kind: pipeline.KindStreamWriter,
					Fields: map[string]pipeline.ChannelConfig{
						"x": {Type: "kafka", Serialization: "json", Config: map[string]any{"topic": "t1"}},
					},
				},
			},
		}},
	}

	refs, err := ReferencedChannels(doc, channels)
	if err != nil {
		t.Fatalf("ReferencedChannels: %v", err)
	}
	if !reflect.DeepEqual(refs, []string{"kafka"}) {
		t.Fatalf("got %v, want [kafka]", refs)
	}
}

func TestReferencedRunnersIncludesSubSteps(t *testing.T) {
	doc := pipeline.Document{
		Values: []pipeline.ResolvedStep{{
			ProcessorConfig: catalog.Step{ID: "s2", RunnerID: "r2"},
			Args: map[string]pipeline.StepArgument{
				"in": {
					Kind: pipeline.KindStep,
					Run: &pipeline.ResolvedStep{
						ProcessorConfig: catalog.Step{ID: "s1", RunnerID: "r1"},
						Args:            map[string]pipeline.StepArgument{},
					},
					Output: "stdout",
				},
			},
		}},
	}

	refs := ReferencedRunners(doc)
	if !reflect.DeepEqual(refs, []string{"r2", "r1"}) {
		t.Fatalf("got %v, want [r2 r1]", refs)
	}
}
