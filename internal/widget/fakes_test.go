package widget

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/habit-tasks/internal/model"
)

type surfaceEvent struct {
	Kind  string
	Label string
	Toast string
	Cards []model.Card
	Busy  bool
}

// recordingSurface records every call the controller makes.
type recordingSurface struct {
	events []surfaceEvent
	cards  []model.Card
	toast  string
	mu     sync.Mutex
	shown  bool
}

func (s *recordingSurface) SetBusy(busy bool, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, surfaceEvent{Kind: "busy", Busy: busy, Label: label})
}

func (s *recordingSurface) RenderCards(cards []model.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = cards
	s.events = append(s.events, surfaceEvent{Kind: "render", Cards: cards})
}

func (s *recordingSurface) ShowToast(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = msg
	s.shown = true
	s.events = append(s.events, surfaceEvent{Kind: "toast", Toast: msg})
}

func (s *recordingSurface) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = false
	s.events = append(s.events, surfaceEvent{Kind: "hide"})
}

func (s *recordingSurface) busyEvents() []surfaceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []surfaceEvent
	for _, e := range s.events {
		if e.Kind == "busy" {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSurface) renderedCards() []model.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cards
}

func (s *recordingSurface) toastState() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toast, s.shown
}

// stubBackend answers with canned values and records what it was sent.
type stubBackend struct {
	suggestErr    error
	feedbackErr   error
	suggestFn     func(ctx context.Context, habits string) ([]string, error)
	habitsSeen    []string
	feedbackSeen  []model.FeedbackEvent
	suggestions   []string
	mu            sync.Mutex
	feedbackOK    bool
	suggestCalled int
}

func (b *stubBackend) Suggest(ctx context.Context, habits string) ([]string, error) {
	b.mu.Lock()
	b.suggestCalled++
	b.habitsSeen = append(b.habitsSeen, habits)
	fn := b.suggestFn
	b.mu.Unlock()

	if fn != nil {
		return fn(ctx, habits)
	}
	return b.suggestions, b.suggestErr
}

func (b *stubBackend) Feedback(_ context.Context, event model.FeedbackEvent) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.feedbackSeen = append(b.feedbackSeen, event)
	return b.feedbackOK, b.feedbackErr
}

func (b *stubBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.suggestCalled
}

// manualClock only fires timers when told to.
type manualClock struct {
	timers []*manualTimer
	mu     sync.Mutex
}

type manualTimer struct {
	clock   *manualClock
	f       func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireActive runs every timer that has not been stopped.
func (c *manualClock) fireActive() {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) timer(i int) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timers[i]
}
