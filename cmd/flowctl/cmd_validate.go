package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Pretty-print the loaded channel and runner catalogues",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, channels, runners, err := loadCatalogues()
		if err != nil {
			return err
		}

		fmt.Printf("channels (%d):\n", len(channels))
		for _, c := range channels {
			fmt.Printf("  %-20s requiredFields=%v options=%d location=%s\n", c.ID, c.RequiredFields, len(c.Options), c.Location)
		}

		fmt.Printf("runners (%d):\n", len(runners))
		for _, r := range runners {
			fmt.Printf("  %-20s canUseChannel=%v canUseSerialization=%v location=%s\n", r.ID, r.CanUseChannel, r.CanUseSerialization, r.Location)
		}
		return nil
	},
}
