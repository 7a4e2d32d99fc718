package tui

import (
	"sync"

	"github.com/Veraticus/habit-tasks/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgramSurface implements widget.Surface by forwarding every call to a
// running bubbletea program as a message.
type ProgramSurface struct {
	send func(tea.Msg)
	mu   sync.RWMutex
}

// NewProgramSurface returns a surface that forwards to send. A nil send drops
// messages until Attach is called.
func NewProgramSurface(send func(tea.Msg)) *ProgramSurface {
	return &ProgramSurface{send: send}
}

// Attach sets the function messages are forwarded to, normally Program.Send.
func (s *ProgramSurface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *ProgramSurface) dispatch(msg tea.Msg) {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()

	if send != nil {
		send(msg)
	}
}

// SetBusy implements widget.Surface.
func (s *ProgramSurface) SetBusy(busy bool, label string) {
	s.dispatch(busyMsg{busy: busy, label: label})
}

// RenderCards implements widget.Surface.
func (s *ProgramSurface) RenderCards(cards []model.Card) {
	s.dispatch(cardsMsg{cards: cards})
}

// ShowToast implements widget.Surface.
func (s *ProgramSurface) ShowToast(msg string) {
	s.dispatch(toastMsg{text: msg})
}

// HideToast implements widget.Surface.
func (s *ProgramSurface) HideToast() {
	s.dispatch(hideToastMsg{})
}
