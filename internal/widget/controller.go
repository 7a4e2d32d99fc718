package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/habit-tasks/internal/model"
)

// Controller is the suggestion widget controller.
type Controller struct {
	backend    Backend
	surface    Surface
	clock      Clock
	toastTimer Timer
	logger     *slog.Logger
	state      model.UIState
	toastDelay time.Duration
	inFlight   uint64
	lastToken  uint64
	toastSeq   uint64
	mu         sync.Mutex
	policy     ErrorPolicy
	closed     bool
}

// New creates a controller driving surface with results from backend.
func New(backend Backend, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		backend:    backend,
		surface:    surface,
		clock:      SystemClock(),
		logger:     slog.Default(),
		toastDelay: DefaultToastDelay,
		policy:     DefaultErrorPolicy(),
		state: model.UIState{
			ButtonLabel: IdleLabel,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current UI state.
func (c *Controller) State() model.UIState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Cards = append([]model.Card(nil), c.state.Cards...)
	return s
}

// FetchSuggestions submits the habits text and renders the returned suggestions.
//
// The generate control is disabled for the duration of the request and
// restored on every exit path. Failures are logged and, depending on the
// error policy, shown as a toast; the error is also returned for callers that
// care. A call made while another request is in flight returns ErrBusy
// without touching the backend or the surface.
func (c *Controller) FetchSuggestions(ctx context.Context, rawHabits string) error {
	habits := model.NormalizeHabits(rawHabits)

	token, ok := c.begin()
	if !ok {
		return ErrBusy
	}
	defer c.finish(token)

	items, err := c.backend.Suggest(ctx, habits)
	if err != nil {
		c.logger.Error("Failed to fetch suggestions", "error", err)
		if c.policy.ShowSuggestErrors {
			c.ShowToast(MsgSuggestFailed)
		}
		return fmt.Errorf("fetch suggestions: %w", err)
	}

	if items == nil {
		items = []string{}
	}
	c.RenderSuggestions(items, habits)
	return nil
}

// Busy reports whether a suggestion request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != 0
}

func (c *Controller) begin() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != 0 {
		c.logger.Debug("Ignoring suggestion request while another is in flight")
		return 0, false
	}

	c.lastToken++
	c.inFlight = c.lastToken
	c.state.Busy = true
	c.state.ButtonLabel = BusyLabel
	c.surface.SetBusy(true, BusyLabel)
	return c.inFlight, true
}

func (c *Controller) finish(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != token {
		return
	}
	c.inFlight = 0
	c.state.Busy = false
	c.state.ButtonLabel = IdleLabel
	c.surface.SetBusy(false, IdleLabel)
}

// RenderSuggestions replaces the rendered cards with one card per item.
func (c *Controller) RenderSuggestions(items []string, habits string) {
	cards := BuildCards(items, habits)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Cards = cards
	c.surface.RenderCards(append([]model.Card(nil), cards...))
}

// SendFeedback posts a rating for task. An accepted rating produces a
// confirmation toast; failures are logged and only shown when the error
// policy asks for it.
func (c *Controller) SendFeedback(ctx context.Context, habits, task string, rating model.Rating) error {
	event := model.FeedbackEvent{Habits: habits, Task: task, Rating: rating}

	ok, err := c.backend.Feedback(ctx, event)
	if err != nil {
		c.logger.Error("Failed to send feedback",
			"error", err,
			"task", task,
			"rating", int(rating))
		if c.policy.ShowFeedbackErrors {
			c.ShowToast(MsgFeedbackFailed)
		}
		return fmt.Errorf("send feedback: %w", err)
	}

	if ok {
		c.ShowToast(FeedbackMessage(rating))
	}
	return nil
}

// Rate sends feedback for the rendered card at index (0-based).
func (c *Controller) Rate(ctx context.Context, index int, rating model.Rating) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.state.Cards) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNoSuchCard, index)
	}
	card := c.state.Cards[index]
	c.mu.Unlock()

	event := card.Down
	if rating > 0 {
		event = card.Up
	}
	return c.SendFeedback(ctx, event.Habits, event.Task, event.Rating)
}

// HandleKey runs the generate action when ev is the submit shortcut. It
// reports whether the key was handled.
func (c *Controller) HandleKey(ctx context.Context, ev KeyEvent, fieldValue string) (bool, error) {
	if !ev.Submits() {
		return false, nil
	}
	return true, c.FetchSuggestions(ctx, fieldValue)
}

// Close cancels any pending toast timer. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
}

// FeedbackMessage returns the confirmation shown for an accepted rating.
func FeedbackMessage(rating model.Rating) string {
	if rating > 0 {
		return MsgMoreLikeThis
	}
	return MsgFewerLikeThis
}
