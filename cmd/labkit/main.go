// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the labkit CLI: experiment tools,
// paper tools, and the event hooks run by the assistant host.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; commands never see it nil.
var logger = zap.NewNop()

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var verbose bool

// rootCmd is the base command for the labkit CLI.
var rootCmd = &cobra.Command{
	Use:   "labkit",
	Short: "Research lab toolkit: experiment logs, paper tools, and event hooks",
	Long: `labkit records experiments and literature work for a research lab. Every
tool writes a timestamped markdown document under <base_dir>/History and
prints a JSON summary to stdout.

The experiment and paper command groups are run by hand or by the assistant.
The hook command group is run by the assistant host with one JSON event on
stdin; hooks always exit 0.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(); err != nil {
			cmd.SilenceUsage = true
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// setup builds the logger and loads secrets before any command runs.
func setup() error {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l

	s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Debug("loaded secrets", zap.Strings("keys", keys))
	}
	return nil
}

// tool wraps a command's RunE. Flag and argument errors found before it runs
// print usage; errors from the tool itself do not.
func tool(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd, args)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./labkit.yaml or ~/.config/labkit/config.yaml)")
	rootCmd.PersistentFlags().String("base-dir", "", "storage root; artifacts live under <base-dir>/History (default ~/.claude)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("base_dir", rootCmd.PersistentFlags().Lookup("base-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("labkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "labkit"))
		}
	}

	viper.SetEnvPrefix("LABKIT")
	viper.AutomaticEnv()

	// The host assistant exports PAI_DIR and VOICE_SERVER_PORT; LABKIT_*
	// names win when both are set.
	_ = viper.BindEnv("base_dir", "LABKIT_BASE_DIR", "PAI_DIR")
	_ = viper.BindEnv("voice_port", "LABKIT_VOICE_PORT", "VOICE_SERVER_PORT")

	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("base_dir", filepath.Join(home, ".claude"))
	}
	viper.SetDefault("voice_port", "3000")
	viper.SetDefault("http_timeout", 30*time.Second)
	viper.SetDefault("user_agent", "labkit/0.1")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
