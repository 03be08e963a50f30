package main

import (
	"fmt"
	"io"

	"keysort/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// printer writes styled command output using the configured theme.
type printer struct {
	w       io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	header  lipgloss.Style
	key     lipgloss.Style
}

func newPrinter(w io.Writer, cfg *config.Config) *printer {
	p := config.GetTheme(cfg.Theme.Name)
	return &printer{
		w:       w,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(p["success"])),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color(p["error"])),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p["warning"])),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p["primary"])),
		key:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p["info"])),
	}
}

func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

func (p *printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.warning.Render("! "+fmt.Sprintf(format, args...)))
}

func (p *printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.failure.Render("✗ "+fmt.Sprintf(format, args...)))
}

func (p *printer) Header(text string) {
	fmt.Fprintln(p.w, p.header.Render(text))
}

func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Key(k string) string {
	return p.key.Render("[" + k + "]")
}
