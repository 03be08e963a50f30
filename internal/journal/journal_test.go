package journal

import (
	"context"
	"path/filepath"
	"testing"

	"keysort/internal/errors"
	"keysort/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	rec := history.MoveRecord{
		EntryID:      "01ENTRY",
		OriginalPath: "/inbox/a.png",
		FinalPath:    "/keep/a.png",
		Destination:  "/keep",
	}
	require.NoError(t, j.RecordMove(ctx, rec))
	require.NoError(t, j.RecordUndo(ctx, rec))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ActionUndo, entries[0].Action, "newest first")
	assert.Equal(t, ActionMove, entries[1].Action)
	assert.Equal(t, "/inbox/a.png", entries[1].OriginalPath)
	assert.Equal(t, "/keep/a.png", entries[1].FinalPath)
	assert.Equal(t, "/keep", entries[1].Destination)
	assert.Equal(t, "01ENTRY", entries[1].EntryID)
	assert.False(t, entries[1].CreatedAt.IsZero())
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordMove(ctx, history.MoveRecord{EntryID: "e", OriginalPath: "/a", FinalPath: "/b"}))
	}

	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = j.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.RecordMove(ctx, history.MoveRecord{EntryID: "e", OriginalPath: "/a", FinalPath: "/b"}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecentRejectsBadTimestamp(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO moves (id, entry_id, action, original_path, final_path, destination, created_at)
		 VALUES ('01BAD', 'e', 'move', '/inbox/a.png', '/keep/a.png', '/keep', 'yesterday')`)
	require.NoError(t, err)

	_, err = j.Recent(ctx, 10)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.JournalFailed))
	assert.Contains(t, err.Error(), "01BAD")
}
