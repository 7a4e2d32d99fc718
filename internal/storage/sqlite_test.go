package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestSQLiteStorage_ApplyFeedback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	event := model.FeedbackEvent{Habits: "exercise more", Task: "Walk 10 min", Rating: model.RatingUp}
	seen, err := store.ApplyFeedback(ctx, []string{"exercise", "more"}, event)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)

	seen, err = store.ApplyFeedback(ctx, []string{"exercise"}, event)
	require.NoError(t, err)
	assert.Equal(t, 2, seen)

	down := event
	down.Task = "Stretch"
	down.Rating = model.RatingDown
	seen, err = store.ApplyFeedback(ctx, []string{"exercise"}, down)
	require.NoError(t, err)
	assert.Equal(t, 3, seen)

	assoc, err := store.Associations(ctx, []string{"exercise", "more", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, suggester.Associations{
		"exercise": {"Walk 10 min": 2, "Stretch": -1},
		"more":     {"Walk 10 min": 1},
	}, assoc)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, suggester.Stats{Tokens: 2, Edges: 3, Seen: 3}, stats)
}

func TestSQLiteStorage_ApplyFeedback_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		event   model.FeedbackEvent
	}{
		{
			name:    "empty task",
			event:   model.FeedbackEvent{Habits: "x", Task: " ", Rating: model.RatingUp},
			wantErr: common.ErrEmptyTask,
		},
		{
			name:    "zero rating",
			event:   model.FeedbackEvent{Habits: "x", Task: "t", Rating: 0},
			wantErr: common.ErrInvalidRating,
		},
		{
			name:    "out of range rating",
			event:   model.FeedbackEvent{Habits: "x", Task: "t", Rating: 3},
			wantErr: common.ErrInvalidRating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.ApplyFeedback(ctx, []string{"x"}, tt.event)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Seen, "rejected events are not counted")
}

func TestSQLiteStorage_AssociationsEmptyTokens(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	assoc, err := store.Associations(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, assoc)
}

func TestSQLiteStorage_Prune(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bad := model.FeedbackEvent{Habits: "sleep", Task: "Doomscroll", Rating: model.RatingDown}
	for i := 0; i < 3; i++ {
		_, err := store.ApplyFeedback(ctx, []string{"sleep", "late"}, bad)
		require.NoError(t, err)
	}
	_, err := store.ApplyFeedback(ctx, []string{"sleep"}, model.FeedbackEvent{Habits: "sleep", Task: "Dim lights", Rating: model.RatingUp})
	require.NoError(t, err)

	removed, err := store.Prune(ctx, suggester.PruneThreshold)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assoc, err := store.Associations(ctx, []string{"sleep", "late"})
	require.NoError(t, err)
	assert.Equal(t, suggester.Associations{"sleep": {"Dim lights": 1}}, assoc)
}

func TestSQLiteStorage_RecentFeedback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, task := range []string{"first", "second", "third"} {
		_, err := store.ApplyFeedback(ctx, []string{"x"}, model.FeedbackEvent{Habits: "x", Task: task, Rating: model.RatingUp})
		require.NoError(t, err)
	}

	records, err := store.RecentFeedback(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "third", records[0].Task)
	assert.Equal(t, "second", records[1].Task)
	assert.Equal(t, model.RatingUp, records[0].Rating)
	assert.NotEmpty(t, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())

	_, err = store.RecentFeedback(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestSQLiteStorage_Backup(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.ApplyFeedback(ctx, []string{"read"}, model.FeedbackEvent{Habits: "read", Task: "Read 10 pages", Rating: model.RatingUp})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "backup.db")
	require.NoError(t, store.Backup(ctx, dest))

	copyStore, err := NewSQLiteStorage(dest)
	require.NoError(t, err)
	defer func() { _ = copyStore.Close() }()

	assoc, err := copyStore.Associations(ctx, []string{"read"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, assoc["read"]["Read 10 pages"])

	assert.ErrorIs(t, store.Backup(ctx, dest), ErrInvalidPath, "refuses to overwrite")
	assert.ErrorIs(t, store.Backup(ctx, "relative.db"), ErrInvalidPath)
	assert.ErrorIs(t, store.Backup(ctx, "/tmp/it's.db"), ErrInvalidPath)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
