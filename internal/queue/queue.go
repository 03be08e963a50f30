// Package queue holds the ordered list of images still waiting to be sorted
// and the cursor the user navigates with.
package queue

import (
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// Entry is one pending image. ID stays the same while the entry moves
// around or leaves the queue, so history records can refer to it.
type Entry struct {
	ID         string `json:"id"`
	SourcePath string `json:"source_path"`
}

// NewEntry creates an entry with a fresh id.
func NewEntry(path string) Entry {
	return Entry{ID: ulid.Make().String(), SourcePath: path}
}

// Name returns the base name of the image file.
func (e Entry) Name() string {
	return filepath.Base(e.SourcePath)
}

// Queue is an ordered sequence of entries plus a cursor. The cursor is
// always a valid index or len(entries), the exhausted position.
type Queue struct {
	entries []Entry
	cursor  int
}

// New returns a queue over entries with the cursor on the first one.
func New(entries []Entry) *Queue {
	q := &Queue{entries: make([]Entry, len(entries))}
	copy(q.entries, entries)
	return q
}

// Current returns the entry under the cursor.
func (q *Queue) Current() (Entry, bool) {
	if q.cursor >= len(q.entries) {
		return Entry{}, false
	}
	return q.entries[q.cursor], true
}

// Exhausted reports whether there is no current entry.
func (q *Queue) Exhausted() bool {
	return q.cursor >= len(q.entries)
}

// Advance moves to the next entry. From the last entry the queue becomes
// exhausted; advancing an exhausted queue does nothing.
func (q *Queue) Advance() {
	if q.cursor < len(q.entries) {
		q.cursor++
	}
}

// Retreat moves to the previous entry, stopping at the first one.
func (q *Queue) Retreat() {
	if q.cursor > 0 {
		q.cursor--
	}
}

// Rewind moves an exhausted, non-empty queue back to its first entry.
func (q *Queue) Rewind() bool {
	if q.cursor < len(q.entries) || len(q.entries) == 0 {
		return false
	}
	q.cursor = 0
	return true
}

// Remove drops the entry with id. The cursor keeps pointing at the same
// logical next pending item. Returns the index the entry had.
func (q *Queue) Remove(id string) (int, bool) {
	idx := q.IndexOf(id)
	if idx < 0 {
		return -1, false
	}
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	if idx < q.cursor {
		q.cursor--
	}
	return idx, true
}

// Reinsert puts entry back at position, clamped to the current length, and
// moves the cursor onto it. An entry already in the queue is only selected.
func (q *Queue) Reinsert(entry Entry, position int) int {
	if idx := q.IndexOf(entry.ID); idx >= 0 {
		q.cursor = idx
		return idx
	}
	if position < 0 {
		position = 0
	}
	if position > len(q.entries) {
		position = len(q.entries)
	}
	q.entries = append(q.entries, Entry{})
	copy(q.entries[position+1:], q.entries[position:])
	q.entries[position] = entry
	q.cursor = position
	return position
}

// Append adds entry at the end unless an entry with the same source path is
// already queued. An exhausted queue then points at the new entry.
func (q *Queue) Append(entry Entry) bool {
	for _, e := range q.entries {
		if e.SourcePath == entry.SourcePath {
			return false
		}
	}
	q.entries = append(q.entries, entry)
	return true
}

// IndexOf returns the index of the entry with id, or -1.
func (q *Queue) IndexOf(id string) int {
	for i, e := range q.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Position returns the cursor index; equal to Len when exhausted.
func (q *Queue) Position() int {
	return q.cursor
}

// Entries returns a copy of the pending entries in order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}
