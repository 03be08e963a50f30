package common

import "keysort/internal/sorter"

type Mode int

const (
	Normal Mode = iota
	Command
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Snapshot() sorter.Snapshot
	Mode() Mode
	SourceDir() string
	Watching() bool
	CommandLine() string
	StatusLine() string
	HelpLine() string
}
