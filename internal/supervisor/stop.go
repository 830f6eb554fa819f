package supervisor

import (
	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

// Stop spawns the stop script of every referenced runner, then every
// referenced channel, in reverse of the Prepare order, awaiting each before
// the next. Spawn and wait/join failures are ignored (K7), not fatal.
func Stop(doc pipeline.Document, channels []catalog.Channel, runners []catalog.Runner) error {
	channelByID := indexChannels(channels)
	runnerByID := indexRunners(runners)

	refChannels, err := ReferencedChannels(doc, channels)
	if err != nil {
		return err
	}
	refRunners := ReferencedRunners(doc)

	for i := len(refRunners) - 1; i >= 0; i-- {
		r := runnerByID[refRunners[i]]
		if r.Stop == "" {
			continue
		}
		spawnAndWaitIgnoring(r.ID+".stop", r.Stop, r.Location)
	}

	for i := len(refChannels) - 1; i >= 0; i-- {
		ch := channelByID[refChannels[i]]
		if ch.Stop == "" {
			continue
		}
		spawnAndWaitIgnoring(ch.ID+".stop", ch.Stop, ch.Location)
	}

	return nil
}

func spawnAndWaitIgnoring(name, script, cwd string) {
	c, err := Spawn(name, script, cwd, OutputConfig{})
	if err != nil {
		return
	}
	_ = c.Wait()
}
