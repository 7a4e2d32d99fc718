package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/suggester"
	"github.com/oklog/ulid/v2"
)

// Associations returns learned weights for the given tokens.
func (s *SQLiteStorage) Associations(ctx context.Context, tokens []string) (suggester.Associations, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	assoc := suggester.Associations{}
	if len(tokens) == 0 {
		return assoc, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tokens)), ",")
	args := make([]any, len(tokens))
	for i, t := range tokens {
		args[i] = t
	}

	// #nosec G201 - only placeholders are interpolated
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT token, task, weight
		FROM associations
		WHERE token IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query associations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			token, task string
			weight      float64
		)
		if err := rows.Scan(&token, &task, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan association: %w", err)
		}
		if assoc[token] == nil {
			assoc[token] = make(map[string]float64)
		}
		assoc[token][task] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate associations: %w", err)
	}

	return assoc, nil
}

// ApplyFeedback records the event and adjusts every (token, task) weight in one transaction.
func (s *SQLiteStorage) ApplyFeedback(ctx context.Context, tokens []string, event model.FeedbackEvent) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateFeedback(event); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, token := range tokens {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO associations (token, task, weight, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(token, task) DO UPDATE SET
				weight = weight + excluded.weight,
				updated_at = CURRENT_TIMESTAMP
		`, token, event.Task, float64(event.Rating)); err != nil {
			return 0, fmt.Errorf("failed to update association %q: %w", token, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO feedback_events (id, habits, task, rating, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ulid.Make().String(), event.Habits, event.Task, int(event.Rating), time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("failed to record feedback event: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE learner_state SET seen = seen + 1 WHERE id = 1`); err != nil {
		return 0, fmt.Errorf("failed to update seen counter: %w", err)
	}

	var seen int
	if err := tx.QueryRowContext(ctx, `SELECT seen FROM learner_state WHERE id = 1`).Scan(&seen); err != nil {
		return 0, fmt.Errorf("failed to read seen counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit feedback: %w", err)
	}
	return seen, nil
}

// Prune deletes associations at or below threshold.
func (s *SQLiteStorage) Prune(ctx context.Context, threshold float64) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM associations WHERE weight <= ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to prune associations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned associations: %w", err)
	}
	return int(n), nil
}

// Stats reports how many tokens and edges have been learned.
func (s *SQLiteStorage) Stats(ctx context.Context) (suggester.Stats, error) {
	if err := validateContext(ctx); err != nil {
		return suggester.Stats{}, err
	}

	var stats suggester.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT token) FROM associations),
			(SELECT COUNT(*) FROM associations),
			(SELECT seen FROM learner_state WHERE id = 1)
	`).Scan(&stats.Tokens, &stats.Edges, &stats.Seen)
	if err != nil {
		return suggester.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// RecentFeedback returns the newest feedback events first.
func (s *SQLiteStorage) RecentFeedback(ctx context.Context, limit int) ([]model.FeedbackRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habits, task, rating, created_at
		FROM feedback_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.FeedbackRecord
	for rows.Next() {
		var (
			rec    model.FeedbackRecord
			rating int
		)
		if err := rows.Scan(&rec.ID, &rec.Habits, &rec.Task, &rating, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		rec.Rating = model.Rating(rating)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}

	return records, nil
}
