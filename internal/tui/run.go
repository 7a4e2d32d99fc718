package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/habit-tasks/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the interactive widget against backend and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, backend widget.Backend, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	surface := NewProgramSurface(nil)
	controller := widget.New(backend, surface, cfg.ControllerOptions...)
	defer controller.Close()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if cfg.Input != nil {
		programOpts = append(programOpts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(cfg.Output))
	}

	program := tea.NewProgram(newModel(ctx, controller, cfg), programOpts...)
	surface.Attach(program.Send)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("widget exited: %w", err)
	}
	return nil
}
