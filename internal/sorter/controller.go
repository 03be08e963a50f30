// Package sorter ties keys, the image queue, the mover and the undo history
// together into the sorting session state machine.
package sorter

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"keysort/internal/binding"
	"keysort/internal/errors"
	"keysort/internal/history"
	"keysort/internal/log"
	"keysort/internal/mover"
	"keysort/internal/queue"
)

// State is the controller state.
type State int

const (
	// Active means there is a current image to act on.
	Active State = iota
	// Exhausted means the queue is empty or the cursor is past the end.
	Exhausted
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "exhausted"
}

// Mover relocates files and reverses earlier relocations.
type Mover interface {
	Move(src, destDir string) (mover.Result, error)
	Reverse(rec history.MoveRecord) error
}

// Recorder is told about every completed move and undo.
type Recorder interface {
	RecordMove(ctx context.Context, rec history.MoveRecord) error
	RecordUndo(ctx context.Context, rec history.MoveRecord) error
}

// Outcome reports what a command did.
type Outcome struct {
	Command CommandKind
	Changed bool                // queue, history or bindings changed
	Err     error               // surfaced failure, nil on success and on no-ops
	Kind    errors.ErrorKind    // kind of Err, or NoBindingForKey for an unbound key
	Record  *history.MoveRecord // the move made or reversed
}

// Controller owns the binding table, the image queue and the history.
// Commands are processed one at a time; the published Snapshot only changes
// once a command has completed.
type Controller struct {
	mu       sync.Mutex // held for the whole of a command
	bindings *binding.Table
	queue    *queue.Queue
	history  *history.Stack
	mover    Mover
	recorder Recorder
	now      func() time.Time
	moved    int // successful moves minus successful undos

	busy      atomic.Bool
	published atomic.Pointer[Snapshot]
	last      Outcome

	subsMu sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// Option configures a Controller.
type Option func(*Controller)

// WithBindings uses an existing binding table.
func WithBindings(t *binding.Table) Option {
	return func(c *Controller) {
		c.bindings = t
	}
}

// WithHistory uses an existing history stack, e.g. one with a limit.
func WithHistory(h *history.Stack) Option {
	return func(c *Controller) {
		c.history = h
	}
}

// WithRecorder reports moves and undos to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller over the initial queue entries.
func New(entries []queue.Entry, m Mover, opts ...Option) *Controller {
	c := &Controller{
		bindings: binding.NewTable(),
		queue:    queue.New(entries),
		history:  history.New(0),
		mover:    m,
		now:      time.Now,
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.publish()
	return c
}

// Dispatch processes one command to completion.
func (c *Controller) Dispatch(cmd Command) Outcome {
	c.mu.Lock()
	c.busy.Store(true)

	var out Outcome
	switch cmd.Kind {
	case KeyPress:
		out = c.keyPress(cmd.Key)
	case Next:
		out = c.navigate(c.queue.Advance)
	case Previous:
		out = c.navigate(c.queue.Retreat)
	case Undo:
		out = c.undo()
	case Bind:
		out = c.bind(cmd.Key, cmd.Destination)
	case Unbind:
		out = c.unbind(cmd.Key)
	default:
		out = Outcome{Err: errors.Newf("unknown command %d", int(cmd.Kind))}
	}
	out.Command = cmd.Kind
	if out.Err != nil && out.Kind == errors.Unknown {
		out.Kind = errors.KindOf(out.Err)
	}
	c.last = out

	c.publish()
	c.busy.Store(false)
	snap := c.Snapshot()
	c.mu.Unlock()

	c.notify(snap)
	return out
}

// OnKeyPress moves the current image to the folder bound to key.
func (c *Controller) OnKeyPress(key binding.Key) Outcome {
	return c.Dispatch(Press(key))
}

// OnNext moves the cursor forward.
func (c *Controller) OnNext() Outcome {
	return c.Dispatch(Command{Kind: Next})
}

// OnPrevious moves the cursor back.
func (c *Controller) OnPrevious() Outcome {
	return c.Dispatch(Command{Kind: Previous})
}

// OnUndo reverses the most recent move.
func (c *Controller) OnUndo() Outcome {
	return c.Dispatch(Command{Kind: Undo})
}

// Bind assigns key to destination.
func (c *Controller) Bind(key binding.Key, destination string) Outcome {
	return c.Dispatch(BindKey(key, destination))
}

// Unbind removes key's binding.
func (c *Controller) Unbind(key binding.Key) Outcome {
	return c.Dispatch(UnbindKey(key))
}

func (c *Controller) keyPress(key binding.Key) Outcome {
	cur, ok := c.queue.Current()
	if !ok {
		return Outcome{}
	}
	b, ok := c.bindings.Resolve(key)
	if !ok {
		log.LogWithFields(log.F("key", string(key))).Debug("No binding for key")
		return Outcome{Kind: errors.NoBindingForKey}
	}

	position := c.queue.Position()
	res, err := c.mover.Move(cur.SourcePath, b.Destination)
	if err != nil {
		log.LogWithError(err).With(log.F("file", cur.SourcePath), log.F("key", string(key))).Warn("Move failed")
		return Outcome{Err: err}
	}

	rec := history.MoveRecord{
		EntryID:      cur.ID,
		OriginalPath: cur.SourcePath,
		FinalPath:    res.FinalPath,
		Destination:  b.Destination,
		Position:     position,
		Timestamp:    c.now(),
	}
	c.history.Push(rec)
	c.queue.Remove(cur.ID)
	// moving the last-positioned image wraps to the first one still pending
	c.queue.Rewind()
	c.moved++

	if c.recorder != nil {
		if err := c.recorder.RecordMove(context.Background(), rec); err != nil {
			log.LogWithError(err).Warn("Could not journal move")
		}
	}
	return Outcome{Changed: true, Record: &rec}
}

func (c *Controller) navigate(step func()) Outcome {
	before := c.queue.Position()
	step()
	return Outcome{Changed: c.queue.Position() != before}
}

// undo pops the newest record and reverses it. A failed reverse drops the
// record: its preconditions no longer hold.
func (c *Controller) undo() Outcome {
	rec, ok := c.history.PopLast()
	if !ok {
		return Outcome{}
	}

	if err := c.mover.Reverse(rec); err != nil {
		log.LogWithError(err).With(log.F("file", rec.FinalPath)).Warn("Undo failed, record discarded")
		return Outcome{Err: err, Changed: true}
	}

	c.queue.Reinsert(queue.Entry{ID: rec.EntryID, SourcePath: rec.OriginalPath}, rec.Position)
	c.moved--

	if c.recorder != nil {
		if err := c.recorder.RecordUndo(context.Background(), rec); err != nil {
			log.LogWithError(err).Warn("Could not journal undo")
		}
	}
	return Outcome{Changed: true, Record: &rec}
}

func (c *Controller) bind(key binding.Key, destination string) Outcome {
	if err := c.bindings.Bind(key, destination); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Changed: true}
}

func (c *Controller) unbind(key binding.Key) Outcome {
	_, existed := c.bindings.Resolve(key)
	c.bindings.Unbind(key)
	return Outcome{Changed: existed}
}

// AddEntry queues a newly discovered image at the end. Paths already queued
// are ignored, and so are paths that no longer hold a regular file: the
// event may be older than a move that already took the file away.
func (c *Controller) AddEntry(path string) bool {
	c.mu.Lock()
	added := false
	if info, err := os.Lstat(path); err == nil && info.Mode().IsRegular() {
		added = c.queue.Append(queue.NewEntry(path))
	}
	if added {
		c.publish()
	}
	snap := c.Snapshot()
	c.mu.Unlock()

	if added {
		log.LogWithFields(log.F("file", path)).Debug("Queued new image")
		c.notify(snap)
	}
	return added
}

// Bindings returns the current bindings as a key to path map.
func (c *Controller) Bindings() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindings.Map()
}

// Entries returns the pending queue entries.
func (c *Controller) Entries() []queue.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Entries()
}

// History returns the undoable records, oldest first.
func (c *Controller) History() []history.MoveRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Records()
}
