// Command flowctl is the pipeline orchestrator CLI: it synthesises pipeline
// documents from step descriptors and a channel/runner catalogue, then
// prepares, runs, stops, or exports them.
package main

import "flowctl/internal/cliutil"

func main() {
	if err := rootCmd.Execute(); err != nil {
		cliutil.Exit(err)
	}
}
