package main

import (
	"os"

	"github.com/spf13/cobra"

	"flowctl/internal/compose"
)

var dockerCmd = &cobra.Command{
	Use:   "docker <file>",
	Short: "Emit a container-compose document for a pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, channels, runners, err := loadCatalogues()
		if err != nil {
			return err
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}

		exported, err := compose.Export(doc, channels, runners, cfg.TmpDir)
		if err != nil {
			return err
		}

		if flagOutput == "" {
			return compose.Write(os.Stdout, exported)
		}
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		return compose.Write(f, exported)
	},
}

func init() {
	dockerCmd.Flags().StringVar(&flagOutput, "output", "", "write docker-compose.yml here instead of stdout")
}
