package commands

import (
	"canteen-service/internal/auth"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenUserID int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an existing user",
	Long: `Issue a bearer token for an existing user, signed with JWT_SECRET.

Examples:
  canteen token --user 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToken(cmd.Context())
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "User id")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	user, err := b.svc.UserByID(ctx, tokenUserID)
	if err != nil {
		return fmt.Errorf("user %d: %w", tokenUserID, err)
	}

	token, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL).IssueToken(user.ID, user.Role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
