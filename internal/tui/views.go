package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/habit-tasks/internal/widget"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("Habits → Tasks"),
		m.theme.Subtitle.Render("Describe your habits or goals, then generate five small actions."),
		m.input.View(),
		"",
		m.renderButton(),
	}
	if cards := m.renderCards(); cards != "" {
		sections = append(sections, "", cards)
	}
	sections = append(sections, "", m.renderToast(), m.theme.Help.Render(m.help.View(m.keymap)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderButton() string {
	if m.busy {
		return m.theme.ButtonBusy.Render(m.spinner.View() + " " + m.label)
	}
	if m.focus == FocusButton {
		return m.theme.ButtonFocused.Render(m.label)
	}
	return m.theme.Button.Render(m.label)
}

func (m Model) renderCards() string {
	if len(m.cards) == 0 {
		return ""
	}

	width := m.width - 4
	if width < 30 {
		width = 30
	}

	rendered := make([]string, 0, len(m.cards))
	for i, card := range m.cards {
		badge := m.theme.Badge.Render(fmt.Sprintf("%d", card.Ordinal))
		body := lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", m.theme.Normal.Render(card.Text))
		controls := "👍  👎"

		style := m.theme.Card
		if m.focus == FocusCards && i == m.selected {
			style = m.theme.CardSelected
		}
		rendered = append(rendered, style.Width(width).Render(body+"\n"+controls))
	}
	return strings.Join(rendered, "\n")
}

func (m Model) renderToast() string {
	if !m.toastShown {
		return ""
	}
	switch m.toast {
	case widget.MsgSuggestFailed, widget.MsgFeedbackFailed:
		return m.theme.StatusError.Render(m.toast)
	default:
		return m.theme.StatusSuccess.Render(m.toast)
	}
}
