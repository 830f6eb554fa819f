package main

import (
	"github.com/spf13/cobra"

	"flowctl/internal/supervisor"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <file>",
	Short: "Start channels and runners, then run step builds",
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
		return supervisor.Prepare(doc, channels, runners)
	},
}
