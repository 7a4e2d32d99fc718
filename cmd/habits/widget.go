package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/Veraticus/habit-tasks/internal/tui"
	"github.com/Veraticus/habit-tasks/internal/tui/themes"
	"github.com/Veraticus/habit-tasks/internal/widget"
	"github.com/spf13/cobra"
)

func widgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Open the interactive suggestion widget",
		Long: `Open the terminal widget against a running suggestion service.

Type your habits, then press Ctrl+Enter (Ctrl+J) or Alt+Enter to generate five
actions. Tab moves to the cards, where + and - send 👍 and 👎.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWidget(cmd)
		},
	}

	cmd.Flags().String("endpoint", "", "suggestion service URL (overrides widget.endpoint)")
	cmd.Flags().String("theme", "", "color theme: default, catppuccin-mocha")
	cmd.Flags().String("log-file", "", "write logs to this file while the widget is open")
	cmd.Flags().Bool("local", false, "suggest from the local store instead of the service")
	_ = a.v.BindPFlag("widget.endpoint", cmd.Flags().Lookup("endpoint"))
	_ = a.v.BindPFlag("widget.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func (a *app) runWidget(cmd *cobra.Command) error {
	logFile, _ := cmd.Flags().GetString("log-file")
	local, _ := cmd.Flags().GetBool("local")

	// The widget owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(logger)

	policy := widget.ErrorPolicy{
		ShowSuggestErrors:  a.cfg.Widget.ShowSuggestErrors,
		ShowFeedbackErrors: a.cfg.Widget.ShowFeedbackErrors,
	}

	var backend widget.Backend = a.newClient()
	if local {
		engine, store, err := a.openEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)
		backend = suggester.LocalBackend{Engine: engine, K: a.cfg.Suggest.K}
	}

	return tui.Run(cmd.Context(), backend,
		tui.WithTheme(themes.GetTheme(a.cfg.Widget.Theme)),
		tui.WithControllerOptions(
			widget.WithToastDelay(a.cfg.Widget.ToastDelay),
			widget.WithErrorPolicy(policy),
			widget.WithLogger(logger),
		))
}
