package supervisor

import (
	"fmt"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

// Prepare starts every channel referenced by doc, then every runner
// referenced by a step in doc, then runs each step's build script — each
// sub-phase fully awaited before the next begins. Spawn failures (K6) are
// logged and the offending child is omitted; a wait failure is fatal.
func Prepare(doc pipeline.Document, channels []catalog.Channel, runners []catalog.Runner) error {
	channelByID := indexChannels(channels)
	runnerByID := indexRunners(runners)

	refChannels, err := ReferencedChannels(doc, channels)
	if err != nil {
		return err
	}
	refRunners := ReferencedRunners(doc)

	for _, id := range refChannels {
		ch := channelByID[id]
		if ch.Start == "" {
			continue
		}
		if err := spawnAndWait(ch.ID+".start", ch.Start, ch.Location); err != nil {
			return err
		}
	}

	for _, id := range refRunners {
		r := runnerByID[id]
		if r.Start == "" {
			continue
		}
		if err := spawnAndWait(r.ID+".start", r.Start, r.Location); err != nil {
			return err
		}
	}

	for _, rs := range doc.Values {
		s := rs.ProcessorConfig
		if s.Build == "" {
			continue
		}
		if err := spawnAndWait(s.ID+".build", s.Build, s.Location); err != nil {
			return err
		}
	}

	return nil
}

func spawnAndWait(name, script, cwd string) error {
	c, err := Spawn(name, script, cwd, OutputConfig{})
	if err != nil {
		fmt.Printf("%s %s | spawn failed: %v\n", erroLabel, name, err)
		return nil
	}
	if err := c.Wait(); err != nil {
		return fmt.Errorf("supervisor: %s: %w", name, err)
	}
	return nil
}

func indexChannels(channels []catalog.Channel) map[string]catalog.Channel {
	m := make(map[string]catalog.Channel, len(channels))
	for _, c := range channels {
		m[c.ID] = c
	}
	return m
}

func indexRunners(runners []catalog.Runner) map[string]catalog.Runner {
	m := make(map[string]catalog.Runner, len(runners))
	for _, r := range runners {
		m[r.ID] = r
	}
	return m
}
