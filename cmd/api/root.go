// AngelaMos | 2026
// root.go

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront API server and maintenance commands",
		Long: `Storefront serves the catalog, accounts and order API.

Run without a subcommand to start the HTTP server.

Subcommands:
  serve         Start the HTTP server
  migrate       Apply, roll back or inspect database migrations
  keygen        Generate the ES256 signing key pair
  create-admin  Create an administrator account`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(
		&opts.configPath,
		"config",
		"config.yaml",
		"path to an optional YAML config file",
	)

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newKeygenCmd(),
		newCreateAdminCmd(opts),
	)

	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	core.ConfigureResponses(logger, !cfg.IsProduction())

	return cfg, logger, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}

func openDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *zap.Logger,
) (*core.Database, error) {
	db, err := core.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return db, nil
}
