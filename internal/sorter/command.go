package sorter

import (
	"keysort/internal/binding"
)

// CommandKind enumerates the inputs the controller understands.
type CommandKind int

const (
	KeyPress CommandKind = iota
	Next
	Previous
	Undo
	Bind
	Unbind
)

func (k CommandKind) String() string {
	switch k {
	case KeyPress:
		return "key"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Undo:
		return "undo"
	case Bind:
		return "bind"
	case Unbind:
		return "unbind"
	default:
		return "unknown"
	}
}

// Command is one input event. Key is used by KeyPress, Bind and Unbind;
// Destination only by Bind.
type Command struct {
	Kind        CommandKind
	Key         binding.Key
	Destination string
}

// Press builds a KeyPress command.
func Press(key binding.Key) Command {
	return Command{Kind: KeyPress, Key: key}
}

// BindKey builds a Bind command.
func BindKey(key binding.Key, destination string) Command {
	return Command{Kind: Bind, Key: key, Destination: destination}
}

// UnbindKey builds an Unbind command.
func UnbindKey(key binding.Key) Command {
	return Command{Kind: Unbind, Key: key}
}
