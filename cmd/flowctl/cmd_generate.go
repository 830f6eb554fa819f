package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flowctl/internal/catalog"
	"flowctl/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate <stepFile...>",
	Short: "Interactively synthesise a pipeline document from step files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, channels, runners, err := loadCatalogues()
		if err != nil {
			return err
		}
		steps, err := catalog.LoadSteps(args, runners)
		if err != nil {
			return err
		}

		var prompter pipeline.Prompter = pipeline.InteractivePrompter{}
		if flagAutomatic {
			prompter = pipeline.AutomaticPrompter{}
		}

		doc, err := pipeline.Synthesize(steps, channels, runners, prompter)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("generate: marshal document: %w", err)
		}

		if flagOutput == "" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(flagOutput, data, 0o644)
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagOutput, "output", "", "write the pipeline document here instead of stdout")
	generateCmd.Flags().BoolVar(&flagAutomatic, "automatic", false, "resolve channel links and option picks deterministically")
}
