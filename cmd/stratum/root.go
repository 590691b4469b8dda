package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stratum/internal/config"
	"github.com/aretw0/stratum/internal/logging"
	"github.com/spf13/cobra"
)

// errInvalid signals a negative verdict; it exits 1 without an error message.
var errInvalid = errors.New("invalid")

var rootCmd = &cobra.Command{
	Use:           "stratum",
	Short:         "Stratum validates typed configuration values and names",
	Long:          `Stratum checks raw text values against a closed set of data types and identifiers against naming policies, from the command line, over HTTP or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a stratum.yaml configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// loadConfig reads the configuration named by the persistent flags and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(level), nil
}
