package main

import (
	"github.com/spf13/cobra"

	"flowctl/internal/supervisor"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute the pipeline described by a generated document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, runners, err := loadCatalogues()
		if err != nil {
			return err
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		return supervisor.Run(doc, runners, cfg.TmpDir)
	},
}
