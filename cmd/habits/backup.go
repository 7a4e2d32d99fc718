package main

import (
	"fmt"
	"path/filepath"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/config"
	"github.com/Veraticus/habit-tasks/internal/storage"
	"github.com/spf13/cobra"
)

func backupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <destination>",
		Short: "Copy the learned-suggestion database",
		Long: `Write a consistent copy of the sqlite database to a new file.
The destination must not already exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if a.cfg.Storage.Driver != config.DriverSQLite {
				return common.NewUserError("backup requires the sqlite storage driver", common.ErrInvalidConfig)
			}

			dest, err := filepath.Abs(config.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("failed to resolve destination: %w", err)
			}

			store, err := storage.NewSQLiteStorage(a.cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeStore(store)

			if err := store.Backup(ctx, dest); err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Backup written to "+dest))
			return nil
		},
	}
}
