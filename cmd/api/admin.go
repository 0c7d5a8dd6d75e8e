// AngelaMos | 2026
// admin.go

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/user"
)

// Registration always creates regular users, so the first administrator is
// seeded from the command line.
func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var req auth.RegisterRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account.

The password may be passed with --password or through the ADMIN_PASSWORD
environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if req.Password == "" {
				req.Password = os.Getenv("ADMIN_PASSWORD")
			}

			if err := core.NewValidator().Struct(req); err != nil {
				return fmt.Errorf("invalid admin account: %w", err)
			}

			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

			db, err := openDatabase(ctx, cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits right after

			users := user.NewService(user.NewRepository(db.DB), logger)
			accounts := auth.NewService(nil, users, logger)

			info, err := accounts.CreateAccount(ctx, req, core.RoleAdmin)
			if errors.Is(err, auth.ErrAccountExists) {
				return fmt.Errorf("username or email %q already taken", req.Username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"created admin %s (id %d)\n", info.Username, info.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "admin", "admin username")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above

	return cmd
}
