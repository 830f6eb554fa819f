package pipeline

import "flowctl/internal/catalog"

// tmpTarget is an open writer endpoint awaiting a reader link.
type tmpTarget struct {
	stepID                string
	writerArgID            string
	name                   string
	possibleChannelIDs     []string
	possibleSerializations []string
}

// writerFieldsEntry records the shared Fields map backing one streamWriter
// argument, so a link found later (or a lingering-writer sweep) can write
// into it directly.
type writerFieldsEntry struct {
	stepID string
	argID  string
	fields map[string]ChannelConfig
}

// state is the synthesiser's working set while walking one ordered step
// list. It is discarded once the document is emitted.
type state struct {
	openChannels []tmpTarget
	writerFields []writerFieldsEntry
	allStepArgs  map[string]map[string]StepArgument
	stepByID     map[string]catalog.Step
	done         []string
	used         map[string]bool
	params       []string
	paramSeen    map[string]bool

	channels map[string]*catalog.Channel
	runners  map[string]catalog.Runner
	prompter Prompter
}

func newState(channels []catalog.Channel, runners []catalog.Runner, p Prompter) *state {
	chMap := make(map[string]*catalog.Channel, len(channels))
	for i := range channels {
		chMap[channels[i].ID] = &channels[i]
	}
	rMap := make(map[string]catalog.Runner, len(runners))
	for _, r := range runners {
		rMap[r.ID] = r
	}
	return &state{
		allStepArgs: map[string]map[string]StepArgument{},
		stepByID:    map[string]catalog.Step{},
		used:        map[string]bool{},
		paramSeen:   map[string]bool{},
		channels:    chMap,
		runners:     rMap,
		prompter:    p,
	}
}

func (s *state) addParam(name string) {
	if !s.paramSeen[name] {
		s.paramSeen[name] = true
		s.params = append(s.params, name)
	}
}

// writerFieldsFor returns the shared Fields map for the streamWriter
// argument argID belonging to stepID, as registered when that writer
// argument was first walked.
func (s *state) writerFieldsFor(stepID, argID string) map[string]ChannelConfig {
	for _, e := range s.writerFields {
		if e.stepID == stepID && e.argID == argID {
			return e.fields
		}
	}
	return nil
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []string
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

func anyCommon(a, b []string) bool {
	return len(intersect(a, b)) > 0
}
