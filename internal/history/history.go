// Package history records executed moves so they can be undone newest first.
package history

import (
	"time"
)

// MoveRecord describes one executed, reversible move.
type MoveRecord struct {
	EntryID      string    `json:"entry_id"`
	OriginalPath string    `json:"original_path"`
	FinalPath    string    `json:"final_path"`
	Destination  string    `json:"destination"`
	Position     int       `json:"position"` // queue index when the move happened
	Timestamp    time.Time `json:"timestamp"`
}

// Stack is a LIFO of move records. A zero limit keeps every record; a
// positive limit evicts the oldest record once exceeded.
type Stack struct {
	records []MoveRecord
	limit   int
}

// New creates a stack keeping at most limit records (0 = unbounded).
func New(limit int) *Stack {
	if limit < 0 {
		limit = 0
	}
	return &Stack{limit: limit}
}

// Push appends rec, evicting the oldest record if the stack is full.
func (s *Stack) Push(rec MoveRecord) {
	s.records = append(s.records, rec)
	if s.limit > 0 && len(s.records) > s.limit {
		drop := len(s.records) - s.limit
		s.records = append(s.records[:0], s.records[drop:]...)
	}
}

// PopLast removes and returns the most recent record.
func (s *Stack) PopLast() (MoveRecord, bool) {
	if len(s.records) == 0 {
		return MoveRecord{}, false
	}
	last := s.records[len(s.records)-1]
	s.records = s.records[:len(s.records)-1]
	return last, true
}

// Peek returns the most recent record without removing it.
func (s *Stack) Peek() (MoveRecord, bool) {
	if len(s.records) == 0 {
		return MoveRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// Len returns the number of undoable records.
func (s *Stack) Len() int {
	return len(s.records)
}

// Limit returns the retention limit, 0 meaning unbounded.
func (s *Stack) Limit() int {
	return s.limit
}

// Records returns a copy of the records, oldest first.
func (s *Stack) Records() []MoveRecord {
	out := make([]MoveRecord, len(s.records))
	copy(out, s.records)
	return out
}
