package tui

import (
	"context"

	"github.com/Veraticus/habit-tasks/internal/model"
	"github.com/Veraticus/habit-tasks/internal/tui/themes"
	"github.com/Veraticus/habit-tasks/internal/widget"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of the widget controller the TUI drives.
type Controller interface {
	HandleKey(ctx context.Context, ev widget.KeyEvent, fieldValue string) (bool, error)
	FetchSuggestions(ctx context.Context, rawHabits string) error
	SendFeedback(ctx context.Context, habits, task string, rating model.Rating) error
}

// Focus identifies which control receives key presses.
type Focus int

const (
	FocusInput Focus = iota
	FocusButton
	FocusCards
)

// Model holds the widget TUI state. Everything it displays arrives as
// surface messages from the controller.
type Model struct {
	ctx        context.Context
	controller Controller
	theme      themes.Theme
	config     Config
	keymap     KeyMap
	help       help.Model
	input      textinput.Model
	spinner    spinner.Model
	label      string
	toast      string
	cards      []model.Card
	selected   int
	width      int
	height     int
	focus      Focus
	busy       bool
	toastShown bool
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, controller Controller, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = cfg.Placeholder
	input.Prompt = "› "
	input.CharLimit = 500
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:        ctx,
		controller: controller,
		theme:      cfg.Theme,
		config:     cfg,
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		input:      input,
		spinner:    s,
		label:      widget.IdleLabel,
		width:      cfg.Width,
		height:     cfg.Height,
		focus:      FocusInput,
	}
	m.resize()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case busyMsg:
		m.busy = msg.busy
		m.label = msg.label
		if m.busy {
			return m, m.spinner.Tick
		}
		return m, nil

	case cardsMsg:
		m.cards = msg.cards
		m.selected = 0
		if m.focus == FocusCards && len(m.cards) == 0 {
			m.setFocus(FocusButton)
		}
		return m, nil

	case toastMsg:
		m.toast = msg.text
		m.toastShown = true
		return m, nil

	case hideToastMsg:
		m.toastShown = false
		return m, nil

	case actionDoneMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		if m.focus == FocusInput {
			return m, m.submit(keyEvent(msg))
		}
		return m, m.generate()

	case key.Matches(msg, m.keymap.NextFocus):
		m.setFocus(m.nextFocus(1))
		return m, nil

	case key.Matches(msg, m.keymap.PrevFocus):
		m.setFocus(m.nextFocus(-1))
		return m, nil
	}

	switch m.focus {
	case FocusInput:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case FocusButton:
		if key.Matches(msg, m.keymap.Press) {
			return m, m.generate()
		}

	case FocusCards:
		switch {
		case key.Matches(msg, m.keymap.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keymap.Down):
			if m.selected < len(m.cards)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keymap.ThumbsUp):
			return m, m.rate(m.selected, model.RatingUp)
		case key.Matches(msg, m.keymap.ThumbsDown):
			return m, m.rate(m.selected, model.RatingDown)
		}
	}
	return m, nil
}

// nextFocus cycles input → button → cards, skipping cards when none are rendered.
func (m Model) nextFocus(step int) Focus {
	stops := []Focus{FocusInput, FocusButton}
	if len(m.cards) > 0 {
		stops = append(stops, FocusCards)
	}
	idx := 0
	for i, f := range stops {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(stops)) % len(stops)
	return stops[idx]
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) resize() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	m.input.Width = w
	m.help.Width = m.width
}

// keyEvent translates a terminal key into the widget's key event.
// Terminals deliver Ctrl+Enter as ctrl+j and Cmd/Option+Enter as alt+enter.
func keyEvent(msg tea.KeyMsg) widget.KeyEvent {
	switch msg.String() {
	case "ctrl+j":
		return widget.KeyEvent{Key: widget.KeyEnter, Ctrl: true}
	case "alt+enter":
		return widget.KeyEvent{Key: widget.KeyEnter, Meta: true}
	case "enter":
		return widget.KeyEvent{Key: widget.KeyEnter}
	default:
		return widget.KeyEvent{Key: msg.String(), Meta: msg.Alt}
	}
}

// Focused returns the control that currently receives key presses.
func (m Model) Focused() Focus {
	return m.focus
}

// Selected returns the index of the highlighted card.
func (m Model) Selected() int {
	return m.selected
}
