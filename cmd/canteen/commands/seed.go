package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo accounts, a week of menu and starter stock",
	Long: `Load demo accounts (admin, ivanov, petrov), a week of menu starting today
and starter inventory. Existing accounts are kept and non-empty menu or
inventory collections are left alone, so the command can be re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func runSeed(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	result, err := b.seed(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
