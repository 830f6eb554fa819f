package pipeline

import (
	"encoding/json"
	"testing"

	"flowctl/internal/catalog"
)

// scriptedPrompter is AutomaticPrompter with Line overridden to return
// pre-scripted answers in call order, for exercising value-entry flows that
// AutomaticPrompter alone cannot script deterministically.
type scriptedPrompter struct {
	AutomaticPrompter
	lines []string
	i     int
}

func (p *scriptedPrompter) Line(label, initial string) (string, error) {
	if p.i >= len(p.lines) {
		return initial, nil
	}
	v := p.lines[p.i]
	p.i++
	return v, nil
}

func TestSynthesizeSingleStepPlainArg(t *testing.T) {
	runner := catalog.Runner{ID: "r1", Script: "echo {config}"}
	step := catalog.Step{
		ID:       "s1",
		RunnerID: "r1",
		Config:   map[string]any{},
		Args:     []catalog.StepArg{{ID: "x", Type: "int"}},
	}

	p := &scriptedPrompter{lines: []string{"42"}}
	doc, err := Synthesize([]catalog.Step{step}, nil, []catalog.Runner{runner}, p)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(doc.Values) != 1 {
		t.Fatalf("expected 1 resolved step, got %d", len(doc.Values))
	}
	arg := doc.Values[0].Args["x"]
	if arg.Kind != KindPlain {
		t.Fatalf("expected Plain arg, got %v", arg.Kind)
	}
	if f, ok := arg.Value.(float64); !ok || f != 42 {
		t.Fatalf("expected plain value 42, got %#v", arg.Value)
	}
	if len(doc.Params) != 0 {
		t.Fatalf("expected no params, got %v", doc.Params)
	}
}

func TestSynthesizeZeroSteps(t *testing.T) {
	doc, err := Synthesize(nil, nil, nil, AutomaticPrompter{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"values":[],"params":[]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestSynthesizeWriterReaderAutoLink(t *testing.T) {
	channels := []catalog.Channel{{
		ID:             "kafka",
		RequiredFields: nil,
		Options:        []map[string]any{{"topic": "t1"}},
	}}
	runners := []catalog.Runner{
		{ID: "r1", Script: "run1 {config}", CanUseChannel: []string{"kafka"}, CanUseSerialization: []string{"json"}},
		{ID: "r2", Script: "run2 {config}", CanUseChannel: []string{"kafka"}, CanUseSerialization: []string{"json"}},
	}
	steps := []catalog.Step{
		{ID: "s1", RunnerID: "r1", Args: []catalog.StepArg{{ID: "w", Type: "streamWriter", TargetIDs: []string{"x"}}}},
		{ID: "s2", RunnerID: "r2", Args: []catalog.StepArg{{ID: "in", Type: "streamReader", SourceIDs: []string{"x"}}}},
	}

	doc, err := Synthesize(steps, channels, runners, AutomaticPrompter{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	var writerCfg, readerCfg ChannelConfig
	for _, rs := range doc.Values {
		switch rs.ProcessorConfig.ID {
		case "s1":
			writerCfg = rs.Args["w"].Fields["x"]
		case "s2":
			readerCfg = rs.Args["in"].Fields["x"]
		}
	}
	if !writerCfg.Equal(readerCfg) {
		t.Fatalf("writer/reader ChannelConfig mismatch: %+v vs %+v", writerCfg, readerCfg)
	}
	if writerCfg.Type != "kafka" || writerCfg.Serialization != "json" {
		t.Fatalf("unexpected ChannelConfig: %+v", writerCfg)
	}
}

func TestSynthesizeOptionExhaustionIsFatal(t *testing.T) {
	channels := []catalog.Channel{{
		ID:      "kafka",
		Options: []map[string]any{{"topic": "t1"}, {"topic": "t2"}},
	}}
	runners := []catalog.Runner{
		{ID: "r1", Script: "run {config}", CanUseChannel: []string{"kafka"}, CanUseSerialization: []string{"json"}},
	}
	steps := []catalog.Step{
		{ID: "s1", RunnerID: "r1", Args: []catalog.StepArg{{ID: "w1", Type: "streamWriter", TargetIDs: []string{"a"}}}},
		{ID: "s2", RunnerID: "r1", Args: []catalog.StepArg{{ID: "w2", Type: "streamWriter", TargetIDs: []string{"b"}}}},
		{ID: "s3", RunnerID: "r1", Args: []catalog.StepArg{{ID: "w3", Type: "streamWriter", TargetIDs: []string{"c"}}}},
	}

	_, err := Synthesize(steps, channels, runners, AutomaticPrompter{})
	if err == nil {
		t.Fatal("expected option exhaustion error on the third unmatched writer")
	}
}

func TestSynthesizeDuplicateStepID(t *testing.T) {
	runner := catalog.Runner{ID: "r1", Script: "echo {config}"}
	step := catalog.Step{ID: "s1", RunnerID: "r1"}
	_, err := Synthesize([]catalog.Step{step, step}, nil, []catalog.Runner{runner}, AutomaticPrompter{})
	if err == nil {
		t.Fatal("expected duplicate step id error")
	}
}

func TestSynthesizeProcessSubStepMarksUsed(t *testing.T) {
	runner := catalog.Runner{ID: "r1", Script: "echo {config}", CanUseSerialization: []string{"json"}}
	s1 := catalog.Step{ID: "s1", RunnerID: "r1"}
	s2 := catalog.Step{
		ID:       "s2",
		RunnerID: "r1",
		Args:     []catalog.StepArg{{ID: "in", Type: "process"}},
	}

	p := &processPrompter{}
	doc, err := Synthesize([]catalog.Step{s1, s2}, nil, []catalog.Runner{runner}, p)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(doc.Values) != 1 || doc.Values[0].ProcessorConfig.ID != "s2" {
		t.Fatalf("expected only s2 at top level, got %+v", doc.Values)
	}
	arg := doc.Values[0].Args["in"]
	if arg.Kind != KindStep || arg.Run.ProcessorConfig.ID != "s1" {
		t.Fatalf("expected step arg referencing s1, got %+v", arg)
	}
}

// processPrompter scripts the literal-kind, earlier-step, output, and
// serialization selections needed to exercise the "process" literal branch.
type processPrompter struct{ AutomaticPrompter }

func (processPrompter) Select(label string, options []string, withOther bool) (int, error) {
	for i, o := range options {
		if o == "process" || o == "s1" || o == "stdout" || o == "json" {
			return i, nil
		}
	}
	return 0, nil
}
