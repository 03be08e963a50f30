package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(names ...string) []Entry {
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, NewEntry("/src/"+n))
	}
	return out
}

func names(q *Queue) []string {
	var out []string
	for _, e := range q.Entries() {
		out = append(out, e.Name())
	}
	return out
}

func currentName(t *testing.T, q *Queue) string {
	t.Helper()
	e, ok := q.Current()
	require.True(t, ok, "expected a current entry")
	return e.Name()
}

func TestNavigation(t *testing.T) {
	q := New(entries("a.png", "b.png", "c.png"))
	assert.Equal(t, "a.png", currentName(t, q))

	q.Retreat()
	assert.Equal(t, "a.png", currentName(t, q), "retreat clamps at the first entry")

	q.Advance()
	q.Advance()
	assert.Equal(t, "c.png", currentName(t, q))

	q.Advance()
	_, ok := q.Current()
	assert.False(t, ok)
	assert.True(t, q.Exhausted())
	assert.Equal(t, 3, q.Position())

	q.Advance()
	assert.Equal(t, 3, q.Position(), "advancing past the end is a no-op")

	q.Retreat()
	assert.Equal(t, "c.png", currentName(t, q))
}

func TestEmptyQueue(t *testing.T) {
	q := New(nil)
	_, ok := q.Current()
	assert.False(t, ok)
	q.Advance()
	q.Retreat()
	assert.Equal(t, 0, q.Position())
	assert.True(t, q.Exhausted())
}

func TestRemove(t *testing.T) {
	t.Run("current entry", func(t *testing.T) {
		q := New(entries("a.png", "b.png", "c.png"))
		a, _ := q.Current()
		idx, ok := q.Remove(a.ID)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
		assert.Equal(t, "b.png", currentName(t, q))
		assert.Equal(t, []string{"b.png", "c.png"}, names(q))
	})

	t.Run("entry before cursor", func(t *testing.T) {
		q := New(entries("a.png", "b.png", "c.png"))
		first, _ := q.Current()
		q.Advance()
		q.Advance()
		q.Remove(first.ID)
		assert.Equal(t, "c.png", currentName(t, q))
		assert.Equal(t, 1, q.Position())
	})

	t.Run("entry after cursor", func(t *testing.T) {
		q := New(entries("a.png", "b.png", "c.png"))
		last := q.Entries()[2]
		q.Remove(last.ID)
		assert.Equal(t, "a.png", currentName(t, q))
	})

	t.Run("last entry", func(t *testing.T) {
		q := New(entries("a.png", "b.png"))
		q.Advance()
		b, _ := q.Current()
		q.Remove(b.ID)
		assert.True(t, q.Exhausted())
		assert.Equal(t, 1, q.Position())
	})

	t.Run("unknown id", func(t *testing.T) {
		q := New(entries("a.png"))
		_, ok := q.Remove("nope")
		assert.False(t, ok)
		assert.Equal(t, 1, q.Len())
	})
}

func TestReinsert(t *testing.T) {
	q := New(entries("a.png", "b.png", "c.png"))
	a, _ := q.Current()
	q.Remove(a.ID)

	pos := q.Reinsert(a, 0)
	assert.Equal(t, 0, pos)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, names(q))
	assert.Equal(t, "a.png", currentName(t, q))

	// position beyond the current length is clamped
	all := q.Entries()
	q.Remove(all[1].ID)
	q.Remove(all[2].ID)
	pos = q.Reinsert(all[2], 2)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []string{"a.png", "c.png"}, names(q))
	assert.Equal(t, "c.png", currentName(t, q))

	// reinserting a queued entry just selects it
	q.Reinsert(all[0], 1)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, "a.png", currentName(t, q))

	// negative positions clamp to the front
	q.Remove(all[0].ID)
	q.Reinsert(all[0], -3)
	assert.Equal(t, []string{"a.png", "c.png"}, names(q))
}

func TestReinsertIntoExhaustedQueue(t *testing.T) {
	q := New(entries("a.png"))
	a, _ := q.Current()
	q.Remove(a.ID)
	require.True(t, q.Exhausted())

	q.Reinsert(a, 0)
	assert.Equal(t, "a.png", currentName(t, q))
}

func TestAppend(t *testing.T) {
	q := New(entries("a.png"))
	assert.True(t, q.Append(NewEntry("/src/b.png")))
	assert.False(t, q.Append(NewEntry("/src/b.png")), "same path is not queued twice")
	assert.Equal(t, []string{"a.png", "b.png"}, names(q))

	q.Advance()
	q.Advance()
	require.True(t, q.Exhausted())
	q.Append(NewEntry("/src/c.png"))
	assert.Equal(t, "c.png", currentName(t, q))
}

func TestEntryIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range entries("a", "b", "c", "d", "e") {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func TestRewind(t *testing.T) {
	q := New(entries("a.png", "b.png"))
	assert.False(t, q.Rewind(), "not exhausted")
	assert.Equal(t, 0, q.Position())

	q.Advance()
	b, _ := q.Current()
	q.Remove(b.ID)
	require.True(t, q.Exhausted())
	assert.True(t, q.Rewind())
	assert.Equal(t, "a.png", currentName(t, q))

	a, _ := q.Current()
	q.Remove(a.ID)
	assert.False(t, q.Rewind(), "empty queue stays exhausted")
	assert.True(t, q.Exhausted())
}
