// Package suggester ranks concrete tasks for a free-text description of habits.
//
// Candidates come from two places: seed rules mapping keywords to tasks, and
// associations learned from thumbs-up/down feedback. Candidates are scored by
// keyword coverage, word overlap with the habits text and learned weight.
package suggester

import (
	"context"

	"github.com/Veraticus/habit-tasks/internal/model"
)

// Associations maps a habit token to per-task learned weights.
type Associations map[string]map[string]float64

// Stats summarises what has been learned so far.
type Stats struct {
	Tokens int
	Edges  int
	Seen   int
}

// Store persists learned associations.
type Store interface {
	// Associations returns the learned weights for the given tokens only.
	Associations(ctx context.Context, tokens []string) (Associations, error)
	// ApplyFeedback adds event.Rating to the weight of every (token, task) edge
	// and returns the total number of feedback events seen, including this one.
	ApplyFeedback(ctx context.Context, tokens []string, event model.FeedbackEvent) (int, error)
	// Prune removes edges whose weight is at or below threshold and tokens left
	// without edges. It returns the number of edges removed.
	Prune(ctx context.Context, threshold float64) (int, error)
	// Stats reports store totals.
	Stats(ctx context.Context) (Stats, error)
}

// FeedbackLister is implemented by stores that keep a feedback history.
type FeedbackLister interface {
	RecentFeedback(ctx context.Context, limit int) ([]model.FeedbackRecord, error)
}
