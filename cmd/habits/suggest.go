package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/habit-tasks/internal/cli"
	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/widget"
	"github.com/spf13/cobra"
)

func suggestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [habits...]",
		Short: "Print suggestions for your habits",
		Long: `Print numbered suggestions for the habits or goals given as arguments.
With no arguments the habits are read from standard input.

By default the local store is used directly; --remote asks the suggestion
service at widget.endpoint instead.`,
		Example: `  habits suggest sleep earlier and drink more water
  echo "read every day" | habits suggest --remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSuggest(cmd, args)
		},
	}

	cmd.Flags().Bool("remote", false, "ask the running suggestion service")
	cmd.Flags().Int("k", 0, "number of suggestions (local only, default suggest.k)")

	return cmd
}

func (a *app) runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	remote, _ := cmd.Flags().GetBool("remote")
	k, _ := cmd.Flags().GetInt("k")
	if k <= 0 {
		k = a.cfg.Suggest.K
	}

	habits := strings.Join(args, " ")
	if len(args) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), cli.FormatPrompt("Habits"))
		line, err := cli.NewNonBlockingReader(cmd.InOrStdin()).ReadLine(ctx)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read habits: %w", err)
		}
		habits = line
	}
	habits = model.NormalizeHabits(habits)

	var (
		items []string
		err   error
	)
	if remote {
		items, err = a.newClient().Suggest(ctx, habits)
	} else {
		items, err = a.suggestLocal(ctx, habits, k)
	}
	if err != nil {
		return fmt.Errorf("failed to get suggestions: %w", err)
	}

	out := cmd.OutOrStdout()
	cards := widget.BuildCards(items, habits)
	if len(cards) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No suggestions."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Suggestions"))
	for _, card := range cards {
		fmt.Fprintln(out, cli.FormatCard(card.Ordinal, card.Text))
	}
	return nil
}

func (a *app) suggestLocal(ctx context.Context, habits string, k int) ([]string, error) {
	engine, store, err := a.openEngine(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore(store)

	return engine.Suggest(ctx, habits, k)
}
