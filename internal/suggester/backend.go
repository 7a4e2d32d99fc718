package suggester

import (
	"context"

	"github.com/Veraticus/habit-tasks/internal/model"
)

// LocalBackend answers widget requests straight from an Engine, without the
// HTTP service in between.
type LocalBackend struct {
	Engine *Engine
	K      int
}

// Suggest returns up to K suggestions for habits.
func (b LocalBackend) Suggest(ctx context.Context, habits string) ([]string, error) {
	return b.Engine.Suggest(ctx, habits, b.K)
}

// Feedback records event and reports whether it was accepted.
func (b LocalBackend) Feedback(ctx context.Context, event model.FeedbackEvent) (bool, error) {
	return b.Engine.RecordFeedback(ctx, event.Habits, event.Task, event.Rating)
}
