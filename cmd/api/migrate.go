// AngelaMos | 2026
// migrate.go

package main

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Run the embedded database migrations.

Subcommands:
  up      Apply all pending migrations
  down    Roll back the most recent migration
  status  Show applied and pending migrations`,
	}

	cmd.AddCommand(
		migrateSubcommand(opts, "up", "Apply all pending migrations", core.MigrateUp),
		migrateSubcommand(opts, "down", "Roll back the most recent migration", core.MigrateDown),
		migrateSubcommand(opts, "status", "Show migration status", core.MigrateStatus),
	)

	return cmd
}

func migrateSubcommand(
	opts *rootOptions,
	use, short string,
	run func(ctx context.Context, db *sql.DB) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

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

			if err := run(ctx, db.DB.DB); err != nil {
				return err
			}

			logger.Info("migrate finished", zap.String("command", use))
			return nil
		},
	}
}
