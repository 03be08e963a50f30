package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"keysort/internal/log"

	"github.com/gobwas/glob"
)

// Matcher decides which file names are images worth queueing.
type Matcher struct {
	patterns []string
	globs    []glob.Glob
}

// NewMatcher compiles patterns such as "*.{jpg,jpeg,png}". Matching is
// case-insensitive.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether the base name of path matches any pattern.
func (m *Matcher) Match(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Scan lists the matching regular files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func Scan(dir string, m *Matcher) ([]Entry, error) {
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !dirInfo.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var names []string
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		if !m.Match(de.Name()) {
			continue
		}
		names = append(names, de.Name())
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, NewEntry(filepath.Join(dir, name)))
	}

	log.LogWithFields(log.F("directory", dir), log.F("images", len(entries))).Debug("Scanned source folder")
	return entries, nil
}
