package main

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name; derived
// identifiers (env var prefix, config file name) are computed from it.
const appName = "flowctl"

var envPrefix = strings.ToUpper(appName) + "_"

// fileConfig is the shape of flowctl's own settings file.
type fileConfig struct {
	Channels string `yaml:"channels"`
	Runners  string `yaml:"runners"`
	TmpDir   string `yaml:"tmp_dir"`
}

// Config is the fully-layered configuration: file, then environment
// (prefix "FLOWCTL_"), then CLI flags, each overriding the last.
type Config struct {
	ChannelsGlob string
	RunnersGlob  string
	TmpDir       string
	Automatic    bool
}

const (
	defaultChannelsGlob = "channels/*.y*ml"
	defaultRunnersGlob  = "runners/*.y*ml"
)

// loadConfig resolves Config by layering configPath's file (if it exists),
// then FLOWCTL_CHANNELS / FLOWCTL_RUNNERS / FLOWCTL_TMP_DIR / FLOWCTL_AUTOMATIC,
// then the given flag values (empty or false flag values do not override a
// lower layer).
func loadConfig(configPath string, flagChannels, flagRunners, flagTmpDir string, flagAutomatic bool) (Config, error) {
	cfg := Config{ChannelsGlob: defaultChannelsGlob, RunnersGlob: defaultRunnersGlob}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, err
			}
			if fc.Channels != "" {
				cfg.ChannelsGlob = fc.Channels
			}
			if fc.Runners != "" {
				cfg.RunnersGlob = fc.Runners
			}
			if fc.TmpDir != "" {
				cfg.TmpDir = fc.TmpDir
			}
		} else if !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	if v := os.Getenv(envPrefix + "CHANNELS"); v != "" {
		cfg.ChannelsGlob = v
	}
	if v := os.Getenv(envPrefix + "RUNNERS"); v != "" {
		cfg.RunnersGlob = v
	}
	if v := os.Getenv(envPrefix + "TMP_DIR"); v != "" {
		cfg.TmpDir = v
	}
	if v := os.Getenv(envPrefix + "AUTOMATIC"); v != "" && !flagAutomatic {
		if b, err := strconv.ParseBool(v); err == nil {
			flagAutomatic = b
		}
	}

	if flagChannels != "" {
		cfg.ChannelsGlob = flagChannels
	}
	if flagRunners != "" {
		cfg.RunnersGlob = flagRunners
	}
	if flagTmpDir != "" {
		cfg.TmpDir = flagTmpDir
	}
	cfg.Automatic = flagAutomatic

	return cfg, nil
}
