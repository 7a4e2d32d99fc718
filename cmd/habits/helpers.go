package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/habit-tasks/internal/client"
	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/storage"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/spf13/afero"
)

// openEngine loads the seed rules and opens the configured store. The caller
// closes the returned store.
func (a *app) openEngine(ctx context.Context) (*suggester.Engine, storage.Store, error) {
	rules := suggester.LoadRules(afero.NewOsFs(), a.cfg.Rules.Path)

	store, err := storage.Open(ctx, a.cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	common.LogDebug("Opened suggestion engine", common.Fields{
		"driver":   a.cfg.Storage.Driver,
		"path":     a.cfg.Storage.Path,
		"keywords": len(rules),
	})
	return suggester.New(rules, store), store, nil
}

func (a *app) newClient() *client.Client {
	return client.New(a.cfg.Widget.Endpoint, client.WithTimeout(a.cfg.Widget.Timeout))
}

func closeStore(store io.Closer) {
	if err := store.Close(); err != nil {
		common.LogError(err, "failed to close storage", nil)
	}
}

// parseRating accepts up/down words, thumbs and signed numbers.
func parseRating(s string) (model.Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "+", "+1", "1", "y", "yes", "👍":
		return model.RatingUp, nil
	case "down", "-", "-1", "n", "no", "👎":
		return model.RatingDown, nil
	default:
		return 0, common.NewUserError(
			fmt.Sprintf("rating must be up or down, got %q", s),
			fmt.Errorf("%w: %q", common.ErrInvalidRating, s))
	}
}
