package styles

import (
	"keysort/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the core UI styles for one palette.
type Theme struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Current  lipgloss.Style
	Key      lipgloss.Style
	Path     lipgloss.Style
	Help     lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Bindings lipgloss.Style
}

// NewTheme builds the styles for a named palette. Unknown names fall back
// to the default palette.
func NewTheme(name string) Theme {
	p := config.GetTheme(name)
	color := func(k string) lipgloss.Color { return lipgloss.Color(p[k]) }

	return Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color("primary")).
			MarginBottom(1),
		Current: lipgloss.NewStyle().
			Bold(true).
			Foreground(color("emphasis")),
		Key: lipgloss.NewStyle().
			Bold(true).
			Foreground(color("info")),
		Path: lipgloss.NewStyle().
			Foreground(color("primary")),
		Help: lipgloss.NewStyle().
			Foreground(color("info")),
		Status: lipgloss.NewStyle().
			Foreground(color("warning")),
		Error: lipgloss.NewStyle().
			Foreground(color("error")),
		Success: lipgloss.NewStyle().
			Foreground(color("success")),
		Bindings: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("border")),
	}
}
