package commands

import (
	"canteen-service/internal/config"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "canteen",
	Short: "School canteen orders, balances and stock",
	Long: `canteen runs the school canteen backend: student balances and meal
orders, the cook's serving queue with ingredient consumption, inventory,
purchase requests and the admin reports.

Configuration is read from the environment, optionally seeded from a .env
file in the working directory.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load this file into the environment before reading configuration")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Write logs as JSON")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, tokenCmd)
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return cfg, logger, nil
}
