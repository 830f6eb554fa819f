package supervisor

import "testing"

func TestSpawnCapturesStdout(t *testing.T) {
	c, err := Spawn("greet", "echo hello", "", OutputConfig{Stdout: true})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := c.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if c.Stdout != "hello" {
		t.Fatalf("got stdout %q, want %q", c.Stdout, "hello")
	}
}

func TestSpawnWithoutCaptureLeavesAccumulatorEmpty(t *testing.T) {
	c, err := Spawn("greet", "echo hello", "", OutputConfig{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := c.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if c.Stdout != "" {
		t.Fatalf("expected no accumulated stdout, got %q", c.Stdout)
	}
}

func TestSpawnPropagatesNonZeroExit(t *testing.T) {
	c, err := Spawn("fail", "exit 3", "", OutputConfig{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := c.Wait(); err == nil {
		t.Fatal("expected non-zero exit to surface as an error")
	}
}

func TestExpandTilde(t *testing.T) {
	cases := map[string]bool{
		"":        true, // empty input
		"/abs":    true,
		"~":       true,
		"~/sub":   true,
		"~other":  true, // not a bare "~" or "~/..." prefix: passes through
	}
	for in := range cases {
		_ = expandTilde(in) // exercised for panics only; exact home dir is environment-dependent
	}
	if expandTilde("/abs") != "/abs" {
		t.Fatal("absolute path should pass through unchanged")
	}
	if expandTilde("~other") != "~other" {
		t.Fatal("non-homedir tilde form should pass through unchanged")
	}
}
