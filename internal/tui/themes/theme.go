// Package themes holds the lipgloss styles used by the widget.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonBusy    lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	Badge         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	Help          lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#7c3aed",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	surface:    "#262626",
	border:     "#404040",
	muted:      "#737373",
	success:    "#10b981",
	errColor:   "#ef4444",
	onPrimary:  "#fafafa",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	surface:    "#313244",
	border:     "#45475a",
	muted:      "#6c7086",
	success:    "#a6e3a1",
	errColor:   "#f38ba8",
	onPrimary:  "#1e1e2e",
})

type palette struct {
	primary    lipgloss.Color
	foreground lipgloss.Color
	subtle     lipgloss.Color
	surface    lipgloss.Color
	border     lipgloss.Color
	muted      lipgloss.Color
	success    lipgloss.Color
	errColor   lipgloss.Color
	onPrimary  lipgloss.Color
}

func newTheme(p palette) Theme {
	return Theme{
		Primary: p.primary,
		Muted:   p.muted,
		Border:  p.border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),

		Button: lipgloss.NewStyle().
			Foreground(p.foreground).
			Background(p.surface).
			Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(p.onPrimary).
			Background(p.primary).
			Bold(true).
			Padding(0, 2),
		ButtonBusy: lipgloss.NewStyle().
			Foreground(p.muted).
			Background(p.surface).
			Italic(true).
			Padding(0, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(p.onPrimary).
			Background(p.primary).
			Bold(true).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errColor).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
