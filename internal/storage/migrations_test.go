package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Veraticus/habit-tasks/internal/common"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	version, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	for _, table := range []string{"associations", "learner_state", "feedback_events"} {
		var count int
		err := store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s was not created", table)
		}
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habits.db")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		store, err := NewSQLiteStorage(dbPath)
		if err != nil {
			t.Fatalf("Failed to open storage: %v", err)
		}
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("Migrate run %d failed: %v", i+1, err)
		}
		_ = store.Close()
	}
}

func TestMigrate_SeedsLearnerState(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var seen int
	if err := store.db.QueryRow(`SELECT seen FROM learner_state WHERE id = 1`).Scan(&seen); err != nil {
		t.Fatalf("Failed to read learner state: %v", err)
	}
	if seen != 0 {
		t.Errorf("seen = %d, want 0", seen)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if _, err := store.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", ExpectedSchemaVersion+1)); err != nil {
		t.Fatalf("Failed to bump schema version: %v", err)
	}

	err := store.Migrate(context.Background())
	if !errors.Is(err, common.ErrDatabaseCorrupted) {
		t.Errorf("Migrate() error = %v, want ErrDatabaseCorrupted", err)
	}
}
