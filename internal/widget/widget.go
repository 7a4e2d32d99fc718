// Package widget implements the habit suggestion widget controller.
//
// The controller owns the widget's UI state and drives two collaborators: a
// Backend that talks to the suggestion service and a Surface that displays
// cards, the generate button and toast messages. Neither collaborator is
// touched from more than one goroutine at a time.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/habit-tasks/internal/model"
)

// Labels and messages shown by the widget.
const (
	IdleLabel = "Generate 5 actions"
	BusyLabel = "Thinking..."

	MsgSuggestFailed  = "Something went wrong. Please try again."
	MsgFeedbackFailed = "Couldn't send feedback."
	MsgMoreLikeThis   = "Thanks! I'll suggest more like this."
	MsgFewerLikeThis  = "Got it. I'll suggest fewer like this."
)

// DefaultToastDelay is how long a toast stays visible.
const DefaultToastDelay = 1800 * time.Millisecond

var (
	// ErrBusy is returned when a suggestion request is already in flight.
	ErrBusy = errors.New("suggestion request already in flight")
	// ErrNoSuchCard is returned when rating a card index that is not rendered.
	ErrNoSuchCard = errors.New("no such suggestion card")
)

// Backend is the remote suggestion service.
type Backend interface {
	Suggest(ctx context.Context, habits string) ([]string, error)
	Feedback(ctx context.Context, event model.FeedbackEvent) (bool, error)
}

// Surface displays the widget. RenderCards replaces everything previously rendered.
type Surface interface {
	SetBusy(busy bool, label string)
	RenderCards(cards []model.Card)
	ShowToast(msg string)
	HideToast()
}

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by time.AfterFunc.
func SystemClock() Clock {
	return systemClock{}
}

// ErrorPolicy decides which failures are reported to the user with a toast.
// Failures are always logged.
type ErrorPolicy struct {
	ShowSuggestErrors  bool
	ShowFeedbackErrors bool
}

// DefaultErrorPolicy shows suggestion failures and keeps feedback failures silent.
func DefaultErrorPolicy() ErrorPolicy {
	return ErrorPolicy{ShowSuggestErrors: true}
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for toast timers.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithToastDelay sets how long toasts stay visible.
func WithToastDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.toastDelay = d
		}
	}
}

// WithErrorPolicy sets which failures produce a toast.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}
