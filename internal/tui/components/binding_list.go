package components

import (
	"fmt"
	"strings"

	"keysort/internal/binding"
	"keysort/internal/tui/styles"
)

// BindingList renders the key to destination table.
type BindingList struct {
	theme    styles.Theme
	bindings []binding.Binding
}

func NewBindingList(theme styles.Theme) *BindingList {
	return &BindingList{theme: theme}
}

func (bl *BindingList) SetBindings(bindings []binding.Binding) {
	bl.bindings = bindings
}

func (bl *BindingList) View() string {
	var s strings.Builder

	if len(bl.bindings) == 0 {
		s.WriteString(bl.theme.Help.Render("No keys bound. Type :bind <key> <dir>"))
		return bl.theme.Bindings.Render(s.String())
	}

	width := 0
	for _, b := range bl.bindings {
		if len(b.Key) > width {
			width = len(b.Key)
		}
	}

	for i, b := range bl.bindings {
		if i > 0 {
			s.WriteString("\n")
		}
		key := fmt.Sprintf("[%s]%s", b.Key, strings.Repeat(" ", width-len(b.Key)))
		s.WriteString(bl.theme.Key.Render(key))
		s.WriteString("  ")
		s.WriteString(bl.theme.Path.Render(b.Destination))
	}
	return bl.theme.Bindings.Render(s.String())
}
