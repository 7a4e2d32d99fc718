// Package main runs the suggestion widget offline, against the seed rules and
// an in-memory store. Nothing learned survives the session.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/habit-tasks/internal/storage"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/Veraticus/habit-tasks/internal/tui"
	"github.com/Veraticus/habit-tasks/internal/tui/themes"
	"github.com/spf13/afero"
)

func main() {
	ctx := context.Background()

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "/learned.json")
	if err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error creating store: %v\n", err)
		os.Exit(1)
	}

	backend := suggester.LocalBackend{
		Engine: suggester.New(suggester.DefaultRules(), store),
		K:      suggester.DefaultK,
	}

	if err := tui.Run(ctx, backend,
		tui.WithTheme(themes.CatppuccinMocha),
		tui.WithSize(100, 30),
	); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
