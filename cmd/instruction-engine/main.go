// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the instruction-engine CLI. It
// converts work-instruction documents (.docx, and .doc through a converter
// container) into ordered work instructions with a conversion score.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the instruction-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "instruction-engine",
	Short: "Extract work instructions from Word documents",
	Long: `instruction-engine scans maintenance and operations documents for tables
of work instructions, extracts their steps (and embedded images), and scores
how cleanly each document converted.

Documents are filed under Success, SuccessWithWarnings, or Aborted in the
output directory, with a JSON result record next to each one. Results can
also be indexed in SQLite and summarised in Markdown, HTML, or Excel reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./instruction-engine.yaml or ~/.config/instruction-engine/instruction-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	setDefaults()
}

// setDefaults registers every configuration key so that environment
// variables are picked up by viper.Unmarshal.
func setDefaults() {
	viper.SetDefault("batch.input_dir", types.DefaultInputDir)
	viper.SetDefault("batch.output_dir", types.DefaultOutputDir)
	viper.SetDefault("batch.workers", 0)
	viper.SetDefault("batch.timeout", types.DefaultTimeout)
	viper.SetDefault("batch.copy_originals", true)
	viper.SetDefault("legacy.enabled", false)
	viper.SetDefault("legacy.image", types.DefaultLegacyImage)
	viper.SetDefault("store.dir", "")
	viper.SetDefault("report.dir", "")
	viper.SetDefault("report.formats", []string{})
	viper.SetDefault("log_level", "info")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("instruction-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "instruction-engine"))
		}
	}

	viper.SetEnvPrefix("INSTRUCTION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds viper keys to the named flags of cmd. Binding happens
// when a command runs because several commands share keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig decodes the merged configuration (flags, environment, file,
// defaults) and fills remaining zero values.
func loadConfig() (types.EngineConfig, error) {
	var cfg types.EngineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg.Defaults(), nil
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelInfo
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
