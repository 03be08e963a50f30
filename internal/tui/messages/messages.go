package messages

import (
	"keysort/internal/sorter"
	"keysort/internal/watch"
)

// OutcomeMsg carries the result of a controller command run as a tea.Cmd.
type OutcomeMsg struct {
	Command sorter.Command
	Outcome sorter.Outcome
}

// FileAddedMsg reports an image that appeared in the source folder.
type FileAddedMsg struct {
	Event watch.FileEvent
}

// WatchClosedMsg is sent once the watcher's event channel closes.
type WatchClosedMsg struct{}

// ConfigSavedMsg reports the result of persisting bindings.
type ConfigSavedMsg struct {
	Path  string
	Error error
}
