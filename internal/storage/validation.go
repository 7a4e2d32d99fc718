// Package storage provides the persistence layer for learned task associations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/habit-tasks/internal/common"
	"github.com/Veraticus/habit-tasks/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateFeedback checks an event before it is stored.
func validateFeedback(event model.FeedbackEvent) error {
	if strings.TrimSpace(event.Task) == "" {
		return common.ErrEmptyTask
	}
	if !event.Rating.Valid() {
		return fmt.Errorf("%w: %d", common.ErrInvalidRating, event.Rating)
	}
	return nil
}
