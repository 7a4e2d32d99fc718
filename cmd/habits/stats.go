package main

import (
	"fmt"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/spf13/cobra"
)

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show what the engine has learned",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			engine, store, err := a.openEngine(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			stats, err := engine.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}
			rules := engine.Rules()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle("Learned suggestions"))
			fmt.Fprintf(out, "Feedback events: %d\n", stats.Seen)
			fmt.Fprintf(out, "Habit words:     %d\n", stats.Tokens)
			fmt.Fprintf(out, "Associations:    %d\n", stats.Edges)
			fmt.Fprintf(out, "Seed rules:      %d keywords, %d tasks\n", len(rules), rules.TaskCount())
			return nil
		},
	}
}
