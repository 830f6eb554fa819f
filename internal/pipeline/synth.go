package pipeline

import (
	"encoding/json"
	"fmt"

	"flowctl/internal/catalog"
)

var literalKinds = []string{"plain", "file", "process", "param"}

// Synthesize walks steps in declared order against channels/runners and
// produces a fully-resolved pipeline Document. p supplies every interactive
// decision; pass AutomaticPrompter{} for the deterministic, non-interactive
// policy described on AutomaticPrompter.
func Synthesize(steps []catalog.Step, channels []catalog.Channel, runners []catalog.Runner, p Prompter) (Document, error) {
	st := newState(channels, runners, p)

	for _, s := range steps {
		if _, exists := st.stepByID[s.ID]; exists {
			return Document{}, fmt.Errorf("%w: %s", ErrDuplicateStepID, s.ID)
		}
		st.stepByID[s.ID] = s

		r, ok := st.runners[s.RunnerID]
		if !ok {
			return Document{}, fmt.Errorf("pipeline: step %s: unknown runner %s", s.ID, s.RunnerID)
		}
		Cr, Sr := r.CanUseChannel, r.CanUseSerialization

		argsOut := map[string]StepArgument{}
		for _, a := range s.Args {
			switch a.Type {
			case "streamReader":
				fields := map[string]ChannelConfig{}
				for _, src := range a.SourceIDs {
					cfg, err := st.linkReader(src, Cr, Sr)
					if err != nil {
						return Document{}, fmt.Errorf("pipeline: step %s arg %s: %w", s.ID, a.ID, err)
					}
					fields[src] = cfg
				}
				argsOut[a.ID] = StepArgument{Kind: KindStreamReader, Fields: fields}

			case "streamWriter":
				fields := map[string]ChannelConfig{}
				for _, tgt := range a.TargetIDs {
					st.openChannels = append(st.openChannels, tmpTarget{
						stepID:                 s.ID,
						writerArgID:            a.ID,
						name:                   tgt,
						possibleChannelIDs:     Cr,
						possibleSerializations: Sr,
					})
				}
				st.writerFields = append(st.writerFields, writerFieldsEntry{stepID: s.ID, argID: a.ID, fields: fields})
				argsOut[a.ID] = StepArgument{Kind: KindStreamWriter, Fields: fields}

			default:
				arg, err := st.resolveLiteral(s, a, Sr)
				if err != nil {
					return Document{}, fmt.Errorf("pipeline: step %s arg %s: %w", s.ID, a.ID, err)
				}
				argsOut[a.ID] = arg
			}
		}

		st.allStepArgs[s.ID] = argsOut
		st.done = append(st.done, s.ID)
	}

	for _, open := range st.openChannels {
		cfg, err := st.resolveChannelConfig(open.possibleChannelIDs, open.possibleSerializations)
		if err != nil {
			return Document{}, fmt.Errorf("pipeline: lingering writer %s.%s: %w", open.stepID, open.writerArgID, err)
		}
		st.writerFieldsFor(open.stepID, open.writerArgID)[open.name] = cfg
	}

	var values []ResolvedStep
	for _, id := range st.done {
		if st.used[id] {
			continue
		}
		values = append(values, ResolvedStep{
			ProcessorConfig: st.stepByID[id],
			Args:            st.allStepArgs[id],
		})
	}

	return Document{Values: values, Params: st.params}, nil
}

// linkReader resolves one streamReader source id against the currently open
// writers, per the auto-link / prompt / "Other source" rules.
func (st *state) linkReader(src string, Cr, Sr []string) (ChannelConfig, error) {
	var candidateIdx []int
	for i, oc := range st.openChannels {
		if anyCommon(oc.possibleChannelIDs, Cr) && anyCommon(oc.possibleSerializations, Sr) {
			candidateIdx = append(candidateIdx, i)
		}
	}

	if auto, ok := st.prompter.(automaticMode); ok && auto.Automatic() {
		var matching []int
		for _, i := range candidateIdx {
			if st.openChannels[i].name == src {
				matching = append(matching, i)
			}
		}
		if len(matching) == 1 {
			return st.pickWriter(matching[0], Cr, Sr)
		}
	}

	labels := make([]string, len(candidateIdx))
	for i, idx := range candidateIdx {
		oc := st.openChannels[idx]
		labels[i] = fmt.Sprintf("%s.%s (%s)", oc.stepID, oc.writerArgID, oc.name)
	}

	choice, err := st.prompter.Select(fmt.Sprintf("source for %q", src), labels, true)
	if err != nil {
		return ChannelConfig{}, err
	}
	if choice == len(candidateIdx) {
		return st.resolveChannelConfig(Cr, Sr)
	}
	return st.pickWriter(candidateIdx[choice], Cr, Sr)
}

// pickWriter finalizes the link between the reader and the open writer at
// st.openChannels[idx], restricting the channel/serialization choice to the
// intersection of the writer's advertised sets and the reader's Cr/Sr.
func (st *state) pickWriter(idx int, Cr, Sr []string) (ChannelConfig, error) {
	oc := st.openChannels[idx]
	channelIDs := intersect(oc.possibleChannelIDs, Cr)
	serializations := intersect(oc.possibleSerializations, Sr)

	cfg, err := st.resolveChannelConfig(channelIDs, serializations)
	if err != nil {
		return ChannelConfig{}, err
	}

	st.writerFieldsFor(oc.stepID, oc.writerArgID)[oc.name] = cfg
	st.openChannels = append(st.openChannels[:idx], st.openChannels[idx+1:]...)
	return cfg, nil
}

// resolveChannelConfig prompts for a channel id among channelIDs, a
// serialization among serializations, and a concrete (single-use) option
// from that channel, returning the resulting ChannelConfig.
func (st *state) resolveChannelConfig(channelIDs, serializations []string) (ChannelConfig, error) {
	if len(channelIDs) == 0 {
		return ChannelConfig{}, ErrNoCandidate
	}
	chIdx, err := st.prompter.Select("channel", channelIDs, false)
	if err != nil {
		return ChannelConfig{}, err
	}
	channelID := channelIDs[chIdx]

	if len(serializations) == 0 {
		return ChannelConfig{}, ErrNoCandidate
	}
	serIdx, err := st.prompter.Select("serialization", serializations, false)
	if err != nil {
		return ChannelConfig{}, err
	}
	serialization := serializations[serIdx]

	ch, ok := st.channels[channelID]
	if !ok {
		return ChannelConfig{}, fmt.Errorf("pipeline: unknown channel %q", channelID)
	}
	if len(ch.Options) == 0 {
		return ChannelConfig{}, fmt.Errorf("%w: %s", ErrOptionsExhausted, channelID)
	}
	optIdx, err := st.prompter.FirstOption(fmt.Sprintf("option for %s", channelID), len(ch.Options))
	if err != nil {
		return ChannelConfig{}, err
	}
	opt := ch.Options[optIdx]
	ch.Options = append(ch.Options[:optIdx], ch.Options[optIdx+1:]...)

	return ChannelConfig{Type: channelID, Serialization: serialization, Config: opt}, nil
}

// resolveLiteral handles the four literal argument kinds: plain, file,
// process, and param. An unrecognized StepArg.Type is steered through the
// same path (the "literal" branch) per spec.
func (st *state) resolveLiteral(s catalog.Step, a catalog.StepArg, Sr []string) (StepArgument, error) {
	kindIdx, err := st.prompter.Select(fmt.Sprintf("input kind for %s", a.ID), literalKinds, false)
	if err != nil {
		return StepArgument{}, err
	}

	switch literalKinds[kindIdx] {
	case "plain":
		if a.Default {
			return StepArgument{Kind: KindPlain, Value: a.Value}, nil
		}
		seed := ""
		if a.Value != nil {
			if text, ok := a.Value.(string); ok {
				seed = text
			} else {
				b, _ := json.Marshal(a.Value)
				seed = string(b)
			}
		}
		line, err := st.prompter.Line(a.ID, seed)
		if err != nil {
			return StepArgument{}, err
		}
		var v any
		if err := json.Unmarshal([]byte(line), &v); err == nil {
			return StepArgument{Kind: KindPlain, Value: v}, nil
		}
		return StepArgument{Kind: KindPlain, Value: line}, nil

	case "file":
		path, err := st.prompter.Line(fmt.Sprintf("path for %s", a.ID), "")
		if err != nil {
			return StepArgument{}, err
		}
		if len(Sr) == 0 {
			return StepArgument{}, ErrNoCandidate
		}
		serIdx, err := st.prompter.Select(fmt.Sprintf("serialization for %s", a.ID), Sr, false)
		if err != nil {
			return StepArgument{}, err
		}
		return StepArgument{Kind: KindFile, Path: path, Serialization: Sr[serIdx]}, nil

	case "process":
		if len(st.done) == 0 {
			return StepArgument{}, ErrNoSuchStep
		}
		doneIdx, err := st.prompter.Select(fmt.Sprintf("earlier step for %s", a.ID), st.done, false)
		if err != nil {
			return StepArgument{}, err
		}
		linkedID := st.done[doneIdx]

		outputs := []string{"stdout", "stderr"}
		outIdx, err := st.prompter.Select(fmt.Sprintf("stream for %s", a.ID), outputs, false)
		if err != nil {
			return StepArgument{}, err
		}

		linkedStep := st.stepByID[linkedID]
		linkedRunner := st.runners[linkedStep.RunnerID]
		serChoices := intersect(Sr, linkedRunner.CanUseSerialization)
		if len(serChoices) == 0 {
			return StepArgument{}, ErrNoCandidate
		}
		serIdx, err := st.prompter.Select(fmt.Sprintf("serialization for %s", a.ID), serChoices, false)
		if err != nil {
			return StepArgument{}, err
		}

		st.used[linkedID] = true
		run := ResolvedStep{ProcessorConfig: linkedStep, Args: st.allStepArgs[linkedID]}
		return StepArgument{Kind: KindStep, Run: &run, Output: outputs[outIdx], Serialization: serChoices[serIdx]}, nil

	case "param":
		name, err := st.prompter.Line(fmt.Sprintf("param name for %s", a.ID), a.ID)
		if err != nil {
			return StepArgument{}, err
		}
		st.addParam(name)
		return StepArgument{Kind: KindParam, Name: name}, nil

	default:
		return StepArgument{}, fmt.Errorf("pipeline: unreachable literal kind")
	}
}
