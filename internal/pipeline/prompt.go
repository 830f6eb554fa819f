package pipeline

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/chzyer/readline"
	"github.com/ktr0731/go-fuzzyfinder"
)

// Prompter is the interactive decision surface the synthesiser drives. Every
// method may be called any number of times during one generate invocation.
type Prompter interface {
	// Select offers a fuzzy single-select over options, with an "Other"
	// entry appended when withOther is true. Returns the chosen index, or
	// len(options) if "Other" was picked.
	Select(label string, options []string, withOther bool) (int, error)

	// Line prompts for a single line of free text, seeded with initial, with
	// shell filename completion available on demand.
	Line(label, initial string) (string, error)

	// FirstOption always selects the first of n remaining channel options in
	// automatic mode; in interactive mode it prompts for one of the n.
	FirstOption(label string, n int) (int, error)
}

// automaticMode reports whether p is running non-interactively. Both
// Prompter implementations answer this so the synthesiser can apply the
// auto-link rule without a type switch.
type automaticMode interface {
	Automatic() bool
}

// AutomaticPrompter answers every prompt deterministically: selections
// always take index 0 (or "Other" — len(options) — when there are no plain
// options and withOther is set), and free-text lines echo their seed.
type AutomaticPrompter struct{}

func (AutomaticPrompter) Automatic() bool { return true }

func (AutomaticPrompter) Select(_ string, options []string, withOther bool) (int, error) {
	if len(options) == 0 {
		if withOther {
			return 0, nil
		}
		return 0, ErrNoCandidate
	}
	return 0, nil
}

func (AutomaticPrompter) Line(_ string, initial string) (string, error) {
	return initial, nil
}

func (AutomaticPrompter) FirstOption(_ string, n int) (int, error) {
	if n == 0 {
		return 0, ErrOptionsExhausted
	}
	return 0, nil
}

// InteractivePrompter drives prompts through a fuzzy finder for Select, a
// huh select form for FirstOption, and a completion-aware readline instance
// for free text.
type InteractivePrompter struct{}

func (InteractivePrompter) Automatic() bool { return false }

func (InteractivePrompter) Select(label string, options []string, withOther bool) (int, error) {
	items := options
	if withOther {
		items = append(append([]string{}, options...), "Other source")
	}
	if len(items) == 0 {
		return 0, ErrNoCandidate
	}
	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string { return items[i] },
		fuzzyfinder.WithPromptString(label+": "),
	)
	if err != nil {
		return 0, fmt.Errorf("pipeline: select %q: %w", label, err)
	}
	return idx, nil
}

func (InteractivePrompter) FirstOption(label string, n int) (int, error) {
	if n == 0 {
		return 0, ErrOptionsExhausted
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("option %d", i+1)
	}
	var idx int
	sel := huh.NewSelect[int]().
		Title(label).
		Options(huhOptions(labels)...).
		Value(&idx)
	if err := sel.Run(); err != nil {
		return 0, fmt.Errorf("pipeline: choose option for %q: %w", label, err)
	}
	return idx, nil
}

func (InteractivePrompter) Line(label, initial string) (string, error) {
	prompt := label + "> "
	if initial != "" {
		prompt = fmt.Sprintf("%s [%s]> ", label, initial)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    shellCompleter{},
		InterruptPrompt: "^C",
	})
	if err != nil {
		return "", fmt.Errorf("pipeline: readline init: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return "", fmt.Errorf("pipeline: read line for %q: %w", label, err)
	}
	if line == "" {
		return initial, nil
	}
	return line, nil
}

func huhOptions(labels []string) []huh.Option[int] {
	opts := make([]huh.Option[int], len(labels))
	for i, l := range labels {
		opts[i] = huh.NewOption(l, i)
	}
	return opts
}

// shellCompleter delegates filename completion to the shell builtin
// "compgen -f", returning the longest common prefix of the matches.
type shellCompleter struct{}

func (shellCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	word := string(line[:pos])
	out, err := exec.Command("sh", "-c", fmt.Sprintf("compgen -f -- %q", word)).Output()
	if err != nil {
		return nil, 0
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, 0
	}
	prefix := longestCommonPrefix(lines)
	if len(prefix) <= len(word) {
		return nil, 0
	}
	suffix := []rune(prefix[len(word):])
	return [][]rune{suffix}, 0
}

func longestCommonPrefix(lines []string) string {
	prefix := lines[0]
	for _, l := range lines[1:] {
		for !strings.HasPrefix(l, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
