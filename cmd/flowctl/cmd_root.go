package main

import (
	"github.com/spf13/cobra"

	"flowctl/internal/catalog"
)

var (
	flagConfigPath string
	flagChannels   string
	flagRunners    string
	flagTmpDir     string
	flagAutomatic  bool
	flagOutput     string
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Synthesise and run heterogeneous data-processing pipelines",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", appName+".yaml", "path to the flowctl config file")
	rootCmd.PersistentFlags().StringVar(&flagChannels, "channels", "", "glob pattern for channel descriptors (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagRunners, "runners", "", "glob pattern for runner descriptors (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTmpDir, "tmp-dir", "", "scratch directory for step configs and captures")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(dockerCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadCatalogues resolves Config and loads the channel/runner catalogues it
// points at. Commands that only need the pipeline document (run/prepare/
// stop/docker take a document file directly) still need the catalogues to
// resolve start/stop/docker scripts and locations.
func loadCatalogues() (Config, []catalog.Channel, []catalog.Runner, error) {
	cfg, err := loadConfig(flagConfigPath, flagChannels, flagRunners, flagTmpDir, flagAutomatic)
	if err != nil {
		return Config{}, nil, nil, err
	}

	channels, err := catalog.LoadChannels(cfg.ChannelsGlob)
	if err != nil {
		return Config{}, nil, nil, err
	}
	runners, err := catalog.LoadRunners(cfg.RunnersGlob, channels)
	if err != nil {
		return Config{}, nil, nil, err
	}
	return cfg, channels, runners, nil
}
