// Package supervisor spawns the shell children that make up a pipeline run
// (channel/runner start-stop scripts, step builds, step runs), labels and
// optionally captures their stdio, and orders shutdown.
package supervisor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render("INFO")
	erroLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render("ERRO")
)

// OutputConfig selects whether a spawned child's stdout/stderr lines are
// also accumulated into a joined string, in addition to being printed.
type OutputConfig struct {
	Stdout bool
	Stderr bool
}

// Child is the unit of supervision: a spawned process plus its two reader
// goroutines' accumulated output (populated once both have drained).
type Child struct {
	Name   string
	cmd    *exec.Cmd
	wg     sync.WaitGroup
	Stdout string
	Stderr string
}

// Spawn runs "sh -c script" named name, with cwd as its working directory
// (tilde-expanded; falling back to the parent's cwd if it doesn't exist on
// disk), and starts the stdout/stderr reader goroutines. The caller must
// call Wait to reap the process and join the readers.
func Spawn(name, script, cwd string, out OutputConfig) (*Child, error) {
	cmd := exec.Command("sh", "-c", script)

	if dir := expandTilde(cwd); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			cmd.Dir = dir
		}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("supervisor: spawn %s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("supervisor: spawn %s: %w", name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("supervisor: spawn %s: %w", name, err)
	}

	c := &Child{Name: name, cmd: cmd}
	c.wg.Add(2)
	go c.drain(stdout, os.Stdout, infoLabel, out.Stdout, &c.Stdout)
	go c.drain(stderr, os.Stderr, erroLabel, out.Stderr, &c.Stderr)
	return c, nil
}

func (c *Child) drain(r io.Reader, dest *os.File, label string, capture bool, accum *string) {
	defer c.wg.Done()
	var buf strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintf(dest, "%s %s | %s\n", label, c.Name, line)
		if capture {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	if capture {
		*accum = strings.TrimRight(buf.String(), "\n")
	}
}

// Wait joins both reader goroutines and waits for the child to exit.
func (c *Child) Wait() error {
	c.wg.Wait()
	return c.cmd.Wait()
}

// expandTilde expands a leading "~" (alone, or followed by "/") using the
// current user's home directory. Any other prefix passes through unchanged.
func expandTilde(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			if u, uerr := user.Current(); uerr == nil {
				home = u.HomeDir
			}
		}
		if home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
