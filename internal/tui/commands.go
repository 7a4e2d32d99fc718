package tui

import (
	"context"

	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller calls block on the network and take the controller's lock,
// so they always run as commands off the update loop.

// submit routes a shortcut key press in the habits field through the controller.
func (m Model) submit(ev widget.KeyEvent) tea.Cmd {
	ctrl := m.controller
	habits := m.input.Value()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		_, err := ctrl.HandleKey(ctx, ev, habits)
		return actionDoneMsg{action: "suggest", err: err}
	}
}

// generate behaves exactly like pressing the generate button.
func (m Model) generate() tea.Cmd {
	ctrl := m.controller
	habits := m.input.Value()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		return actionDoneMsg{action: "suggest", err: ctrl.FetchSuggestions(ctx, habits)}
	}
}

// rate sends the feedback event of the card at index as rendered now, so a
// fetch finishing before the command runs cannot redirect the rating.
func (m Model) rate(index int, rating model.Rating) tea.Cmd {
	if index < 0 || index >= len(m.cards) {
		return nil
	}
	event := m.cards[index].Down
	if rating > 0 {
		event = m.cards[index].Up
	}
	ctrl := m.controller
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		return actionDoneMsg{action: "feedback", err: ctrl.SendFeedback(ctx, event.Habits, event.Task, event.Rating)}
	}
}

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if m.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, m.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
