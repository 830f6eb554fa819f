package main

import (
	"github.com/spf13/cobra"

	"flowctl/internal/supervisor"
)

var stopCmd = &cobra.Command{
	Use:   "stop <file>",
	Short: "Stop the runners and channels referenced by a pipeline document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, channels, runners, err := loadCatalogues()
		if err != nil {
			return err
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		return supervisor.Stop(doc, channels, runners)
	},
}
