package main

import (
	"fmt"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/config"
	"github.com/Veraticus/habit-tasks/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Only the sqlite storage driver has a schema; the file driver needs no migration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMigrate(cmd)
		},
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func (a *app) runMigrate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	out := cmd.OutOrStdout()

	if a.cfg.Storage.Driver != config.DriverSQLite {
		fmt.Fprintln(out, cli.FormatInfo("The file storage driver has no schema to migrate."))
		return nil
	}

	dbPath := a.cfg.Storage.Path
	common.LogInfo("Starting database migration", common.Fields{
		"database":    dbPath,
		"status_only": status,
	})

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Fprintf(out, "Database:        %s\n", dbPath)
		fmt.Fprintf(out, "Current version: %d\n", current)
		fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed successfully!"))
	return nil
}
