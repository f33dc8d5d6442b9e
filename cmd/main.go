// Package main provides the CLI entrypoint for the blocklists generator.
// It wires subcommands (build, normalize), loads configuration, and initializes logging.
package main

import (
	"context"
	"os"

	"blocklists/internal/config"
	"blocklists/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCommand builds the command tree. cfg is filled in before any subcommand
// runs, from the file given with --config.
func rootCommand() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "blocklists",
		Short:         "Builds domain blocklists from curated sources",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded

			return logger.Setup(cfg.Environment, cfg.LogLevel)
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	rootCmd.AddCommand(
		buildCommand(cfg),
		normalizeCommand(),
	)

	return rootCmd
}

// main executes the CLI and exits non-zero when the command fails.
func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	// cobra prints the error to stderr, the logger may not be set up yet
	err := rootCommand().Execute()
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
