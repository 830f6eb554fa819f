// Package cliutil holds small helpers shared by the flowctl subcommands.
package cliutil

import (
	"fmt"
	"os"
)

// Exit prints err to stderr and terminates the process with exit code 1.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
