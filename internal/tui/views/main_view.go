package views

import (
	"fmt"
	"strings"

	"keysort/internal/sorter"
	"keysort/internal/tui/common"
	"keysort/internal/tui/components"
	"keysort/internal/tui/styles"
)

// RenderMainView draws the sorting screen.
func RenderMainView(m common.ModelReader, theme styles.Theme) string {
	var sb strings.Builder
	snap := m.Snapshot()

	sb.WriteString(theme.Title.Render("keysort"))
	sb.WriteString("\n")
	source := "Source: " + m.SourceDir()
	if m.Watching() {
		source += " (watching)"
	}
	sb.WriteString(theme.Help.Render(source))
	sb.WriteString("\n\n")

	sb.WriteString(renderCurrent(snap, theme))
	sb.WriteString("\n\n")

	list := components.NewBindingList(theme)
	list.SetBindings(snap.Bindings)
	sb.WriteString(list.View())
	sb.WriteString("\n\n")

	sb.WriteString(renderUndo(snap, theme))
	sb.WriteString("\n")

	if status := m.StatusLine(); status != "" {
		sb.WriteString(status)
		sb.WriteString("\n")
	}

	if m.Mode() == common.Command {
		sb.WriteString(m.CommandLine())
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + m.HelpLine())

	return theme.App.Render(sb.String())
}

func renderCurrent(snap sorter.Snapshot, theme styles.Theme) string {
	if !snap.HasCurrent {
		if snap.Total == 0 {
			return theme.Status.Render("No images to sort")
		}
		return theme.Status.Render(fmt.Sprintf("End of queue, %d skipped", snap.Total))
	}
	pos := fmt.Sprintf("%d/%d  ", snap.Position+1, snap.Total)
	return theme.Help.Render(pos) + theme.Current.Render(snap.Current.Name())
}

func renderUndo(snap sorter.Snapshot, theme styles.Theme) string {
	if !snap.CanUndo {
		return theme.Help.Render("Nothing to undo")
	}
	return theme.Help.Render(fmt.Sprintf("Undo (%d): %s -> %s",
		snap.UndoDepth, snap.NextUndo.FinalPath, snap.NextUndo.OriginalPath))
}
