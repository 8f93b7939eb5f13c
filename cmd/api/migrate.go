package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contactly/contactly/internal/config"
	"github.com/contactly/contactly/internal/repository"
	"github.com/contactly/contactly/internal/repository/migrations"
)

type migrateFunc func(ctx context.Context, db *sql.DB) error

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrateSubcommand("up", "Apply all pending migrations", migrations.Up),
		migrateSubcommand("down", "Roll back the most recent migration", migrations.Down),
		migrateSubcommand("status", "Show the applied state of every migration", migrations.Status),
	)
	return cmd
}

func migrateSubcommand(use, short string, fn migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigration(cmd.Context(), use, fn)
		},
	}
}

func runMigration(ctx context.Context, name string, fn migrateFunc) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := initLogger(cfg)

	db, err := repository.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %s", sanitizeError(err, cfg.DatabaseURL))
	}
	defer db.Close()

	logger.Info("running migration", "command", name, "database_url", redactURL(cfg.DatabaseURL))
	if err := fn(ctx, db); err != nil {
		return fmt.Errorf("migrate %s: %s", name, sanitizeError(err, cfg.DatabaseURL))
	}
	logger.Info("migration finished", "command", name)
	return nil
}
