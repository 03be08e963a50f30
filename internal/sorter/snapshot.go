package sorter

import (
	"keysort/internal/binding"
	"keysort/internal/history"
	"keysort/internal/queue"
)

// Snapshot is a read-only view of the controller for rendering.
type Snapshot struct {
	State      State
	Current    queue.Entry
	HasCurrent bool
	Position   int // cursor index, equal to Total when exhausted
	Total      int
	CanUndo    bool
	UndoDepth  int
	NextUndo   history.MoveRecord // valid when CanUndo
	Bindings   []binding.Binding
	Moved      int // images moved this session, net of undos
	Last       Outcome
	Busy       bool
}

// Snapshot returns the state as of the last completed command. It never
// waits for a command in flight.
func (c *Controller) Snapshot() Snapshot {
	snap := *c.published.Load()
	snap.Busy = c.busy.Load()
	return snap
}

// State returns the current state.
func (c *Controller) State() State {
	return c.Snapshot().State
}

// publish rebuilds the published snapshot. Callers hold c.mu.
func (c *Controller) publish() {
	snap := Snapshot{
		Position:  c.queue.Position(),
		Total:     c.queue.Len(),
		UndoDepth: c.history.Len(),
		Bindings:  c.bindings.List(),
		Moved:     c.moved,
		Last:      c.last,
	}
	snap.Current, snap.HasCurrent = c.queue.Current()
	if snap.HasCurrent {
		snap.State = Active
	} else {
		snap.State = Exhausted
	}
	snap.NextUndo, snap.CanUndo = c.history.Peek()
	c.published.Store(&snap)
}

// Subscribe returns a channel that receives the snapshot after every
// processed command. Slow readers only see the latest one. Call cancel to
// stop receiving.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.subsMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.subsMu.Unlock()

	cancel := func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (c *Controller) notify(snap Snapshot) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
