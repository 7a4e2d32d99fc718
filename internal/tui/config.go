package tui

import (
	"io"
	"time"

	"github.com/Veraticus/habit-tasks/internal/tui/themes"
	"github.com/Veraticus/habit-tasks/internal/widget"
)

// Config holds TUI configuration.
type Config struct {
	Theme             themes.Theme
	Input             io.Reader
	Output            io.Writer
	Placeholder       string
	ControllerOptions []widget.Option
	RequestTimeout    time.Duration
	Width             int
	Height            int
	AltScreen         bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Placeholder: "e.g. sleep earlier, drink more water, read every day",
		Width:       80,
		Height:      24,
		AltScreen:   true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPlaceholder sets the placeholder shown in the empty habits field.
func WithPlaceholder(text string) Option {
	return func(c *Config) {
		c.Placeholder = text
	}
}

// WithControllerOptions passes options through to the widget controller.
func WithControllerOptions(opts ...widget.Option) Option {
	return func(c *Config) {
		c.ControllerOptions = append(c.ControllerOptions, opts...)
	}
}

// WithRequestTimeout bounds each suggest or feedback call. Zero means no bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// WithIO replaces the terminal input and output. The alternate screen is
// disabled when output is redirected.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
		c.AltScreen = false
	}
}
