package tui

import "github.com/Veraticus/habit-tasks/internal/model"

// Surface messages sent by the controller through the program.
type busyMsg struct {
	label string
	busy  bool
}

type cardsMsg struct {
	cards []model.Card
}

type toastMsg struct {
	text string
}

type hideToastMsg struct{}

// actionDoneMsg reports that a controller call returned. Failures have
// already been surfaced by the controller.
type actionDoneMsg struct {
	err    error
	action string
}
