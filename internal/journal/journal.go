// Package journal keeps an append-only SQLite log of executed moves and
// undos, so a session's work can be reviewed after the program exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"keysort/internal/errors"
	"keysort/internal/history"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Actions stored in the journal.
const (
	ActionMove = "move"
	ActionUndo = "undo"
)

// Entry is one journal row.
type Entry struct {
	ID           string
	EntryID      string
	Action       string
	OriginalPath string
	FinalPath    string
	Destination  string
	CreatedAt    time.Time
}

// Journal is a SQLite-backed move log.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.NewFileError("create journal dir", filepath.Dir(path), errors.JournalFailed, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.NewFileError("open journal", path, errors.JournalFailed, err)
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, errors.NewFileError("migrate journal", path, errors.JournalFailed, err)
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS moves (
		id            TEXT PRIMARY KEY,
		entry_id      TEXT NOT NULL,
		action        TEXT NOT NULL,
		original_path TEXT NOT NULL,
		final_path    TEXT NOT NULL,
		destination   TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_moves_created ON moves(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_moves_entry ON moves(entry_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordMove logs a completed move.
func (j *Journal) RecordMove(ctx context.Context, rec history.MoveRecord) error {
	return j.insert(ctx, ActionMove, rec)
}

// RecordUndo logs a completed undo of rec.
func (j *Journal) RecordUndo(ctx context.Context, rec history.MoveRecord) error {
	return j.insert(ctx, ActionUndo, rec)
}

func (j *Journal) insert(ctx context.Context, action string, rec history.MoveRecord) error {
	now := time.Now().UTC()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO moves (id, entry_id, action, original_path, final_path, destination, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rec.EntryID, action, rec.OriginalPath, rec.FinalPath, rec.Destination, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.NewKind(errors.JournalFailed, fmt.Sprintf("record %s", action), err)
	}
	return nil
}

// Recent returns up to limit rows, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, entry_id, action, original_path, final_path, destination, created_at
		 FROM moves ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewKind(errors.JournalFailed, "query journal", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.EntryID, &e.Action, &e.OriginalPath, &e.FinalPath, &e.Destination, &created); err != nil {
			return nil, errors.NewKind(errors.JournalFailed, "scan journal row", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, errors.NewKind(errors.JournalFailed, fmt.Sprintf("bad created_at in journal row %s", e.ID), err)
		}
		e.CreatedAt = ts
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewKind(errors.JournalFailed, "read journal", err)
	}
	return out, nil
}
