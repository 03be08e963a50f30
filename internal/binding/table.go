// Package binding maps single input keys to destination folders.
package binding

import (
	"os"
	"path/filepath"
	"sort"

	"keysort/internal/errors"
	"keysort/internal/log"
)

// Key identifies one physical input key, e.g. "a" or "f1".
type Key string

// Binding associates a key with a destination directory.
type Binding struct {
	Key         Key    `yaml:"key" json:"key"`
	Destination string `yaml:"destination" json:"destination"`
}

// Table holds at most one destination per key. It is not safe for
// concurrent use; the sort controller owns it.
type Table struct {
	bindings map[Key]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{bindings: make(map[Key]string)}
}

// Bind inserts or replaces the binding for key. The destination must be an
// existing directory.
func (t *Table) Bind(key Key, destination string) error {
	if key == "" {
		return errors.NewKind(errors.InvalidDestination, "empty key", nil)
	}
	dest, err := ValidateDestination(destination)
	if err != nil {
		return err
	}

	if prev, ok := t.bindings[key]; ok && prev != dest {
		log.LogWithFields(log.F("key", string(key)), log.F("from", prev), log.F("to", dest)).Info("Rebinding key")
	}
	t.bindings[key] = dest
	return nil
}

// Unbind removes the binding for key if present.
func (t *Table) Unbind(key Key) {
	delete(t.bindings, key)
}

// Resolve looks key up without side effects.
func (t *Table) Resolve(key Key) (Binding, bool) {
	dest, ok := t.bindings[key]
	if !ok {
		return Binding{}, false
	}
	return Binding{Key: key, Destination: dest}, true
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.bindings)
}

// List returns all bindings sorted by key.
func (t *Table) List() []Binding {
	out := make([]Binding, 0, len(t.bindings))
	for k, d := range t.bindings {
		out = append(out, Binding{Key: k, Destination: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Map returns the bindings as a plain key to path map, the shape used by
// the config file.
func (t *Table) Map() map[string]string {
	out := make(map[string]string, len(t.bindings))
	for k, d := range t.bindings {
		out[string(k)] = d
	}
	return out
}

// Load binds every entry of m. Entries with invalid destinations are skipped
// and reported together; valid entries are still bound.
func (t *Table) Load(m map[string]string) error {
	var failed []string
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := t.Bind(Key(k), m[k]); err != nil {
			log.LogWithError(err).With(log.F("key", k)).Warn("Skipping binding")
			failed = append(failed, k)
		}
	}
	if len(failed) > 0 {
		return errors.NewKind(errors.InvalidDestination, "invalid destinations for keys", errors.Newf("%v", failed))
	}
	return nil
}

// ValidateDestination checks that path is an existing directory and returns
// its absolute, cleaned form.
func ValidateDestination(path string) (string, error) {
	if path == "" {
		return "", errors.NewFileError("destination is empty", path, errors.InvalidDestination, nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewFileError("invalid destination", path, errors.InvalidDestination, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.NewFileError("destination does not exist", abs, errors.InvalidDestination, err)
	}
	if !info.IsDir() {
		return "", errors.NewFileError("destination is not a directory", abs, errors.InvalidDestination, nil)
	}
	return abs, nil
}
