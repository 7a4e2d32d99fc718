package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/config"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func rulesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect seed rules",
		Long: `Seed rules map habit keywords to starter tasks. They are read from rules.path
(YAML or JSON) or, when unset, from the built-in defaults.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate a rules file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Rules.Path
			if len(args) == 1 {
				path = config.ExpandPath(args[0])
			}
			if path == "" {
				return common.NewUserError("no rules file given and rules.path is not set", common.ErrMissingConfig)
			}

			data, err := afero.ReadFile(afero.NewOsFs(), path)
			if err != nil {
				return fmt.Errorf("failed to read rules: %w", err)
			}
			rules, err := suggester.ParseRules(data, filepath.Ext(path))
			if err != nil {
				return common.NewUserError("rules file is invalid", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("%s: %d keywords, %d tasks", path, len(rules), rules.TaskCount())))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the active seed rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := suggester.LoadRules(afero.NewOsFs(), a.cfg.Rules.Path)

			out := cmd.OutOrStdout()
			for _, kw := range rules.Keywords() {
				fmt.Fprintln(out, cli.BadgeStyle.Render(kw))
				fmt.Fprintln(out, "  "+strings.Join(rules[kw], "\n  "))
			}
			return nil
		},
	})

	return cmd
}
