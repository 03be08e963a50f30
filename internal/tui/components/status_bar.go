package components

import (
	"keysort/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar shows the last result, or a spinner while a command runs.
type StatusBar struct {
	text    string
	isError bool
	theme   styles.Theme
	spinner spinner.Model
	loading bool
}

func NewStatusBar(theme styles.Theme) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Status

	return &StatusBar{
		theme:   theme,
		spinner: s,
	}
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

// SetText sets an informational message.
func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

// SetError sets an error message.
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) IsError() bool {
	return s.isError
}

// Tick starts the spinner.
func (s *StatusBar) Tick() tea.Msg {
	return s.spinner.Tick()
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	var style lipgloss.Style
	switch {
	case s.isError:
		style = s.theme.Error
	case s.loading:
		style = s.theme.Status
	default:
		style = s.theme.Success
	}

	if s.loading {
		return style.Render(s.spinner.View() + " " + s.text)
	}
	return style.Render(s.text)
}
