package tui

import (
	"strings"

	"keysort/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the reserved keys. Every other single character is
// available for destination bindings.
type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	Undo     key.Binding
	Quit     key.Binding
	Command  key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	return keyMap{
		Next:     reserved(cfg.Keys.Next, "skip"),
		Previous: reserved(cfg.Keys.Previous, "back"),
		Undo:     reserved(cfg.Keys.Undo, "undo"),
		Quit:     reserved(cfg.Keys.Quit, "quit"),
		Command: key.NewBinding(
			key.WithKeys(config.CommandKey),
			key.WithHelp(config.CommandKey, "command"),
		),
	}
}

func reserved(setting, desc string) key.Binding {
	keys := config.SplitKeys(setting)
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Undo, k.Command, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous},
		{k.Undo, k.Command, k.Quit},
	}
}
