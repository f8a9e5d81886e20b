package engine

import (
	"sync"
	"time"

	"github.com/tablo-edit/tablo/internal/engine/history"
	"github.com/tablo-edit/tablo/internal/table"
)

// Command is an invertible table mutation, re-exported for convenience.
type Command = history.Command

// Snapshot is a deep copy of the table state at one point in the edit
// sequence. Seq increases with every published state.
type Snapshot struct {
	Headers []string
	Rows    [][]string
	Seq     uint64
	Time    time.Time
}

// RowKeys returns the serialized identity line of every row, for
// feeding a snapshot into the diff layer.
func (s Snapshot) RowKeys() []string {
	keys := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		keys[i] = table.JoinKey(row)
	}
	return keys
}

// Listener receives the table snapshot published after every successful
// apply, undo, or redo. Listeners run synchronously on the calling
// goroutine and must not call back into the engine.
type Listener func(Snapshot)

// Engine owns one table and its edit history.
type Engine struct {
	mu sync.Mutex

	tbl       *table.Table
	history   *history.History
	listeners []Listener
	seq       uint64

	maxUndoEntries int
}

// New creates an engine. Without WithTable the engine starts on an
// empty, zero-column table.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: history.DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tbl == nil {
		e.tbl = table.Empty(nil)
	}
	e.history = history.NewHistory(e.maxUndoEntries)
	return e
}

// Subscribe registers a snapshot listener.
func (e *Engine) Subscribe(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Apply executes a command against the table and records it for undo.
// On success the new table state is published to all listeners.
func (e *Engine) Apply(cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Execute(cmd, e.tbl); err != nil {
		return err
	}
	e.publishLocked()
	return nil
}

// Undo reverses the most recent history entry and publishes the result.
// Returns ErrNothingToUndo when the undo stack is empty.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Undo(e.tbl); err != nil {
		return err
	}
	e.publishLocked()
	return nil
}

// Redo re-applies the most recently undone entry and publishes the
// result. Returns ErrNothingToRedo when the redo stack is empty.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.history.Redo(e.tbl); err != nil {
		return err
	}
	e.publishLocked()
	return nil
}

// CanUndo reports whether undo is available.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether redo is available.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// BeginGroup opens a history group: commands applied until EndGroup
// coalesce into one undo unit.
func (e *Engine) BeginGroup(name string) { e.history.BeginGroup(name) }

// EndGroup closes the open history group.
func (e *Engine) EndGroup() { e.history.EndGroup() }

// CancelGroup abandons the open group without recording it.
func (e *Engine) CancelGroup() { e.history.CancelGroup() }

// UndoInfo returns display info for the undo stack, oldest first.
func (e *Engine) UndoInfo() []history.EntryInfo { return e.history.UndoInfo() }

// RedoInfo returns display info for the redo stack, oldest first.
func (e *Engine) RedoInfo() []history.EntryInfo { return e.history.RedoInfo() }

// Snapshot returns a deep copy of the current table state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Table returns a deep copy of the current table. The engine keeps
// exclusive ownership of the live grid; callers diff and render against
// the copy.
func (e *Engine) Table() *table.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tbl.Clone()
}

// snapshotLocked builds a snapshot without acquiring the lock.
func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Headers: e.tbl.Headers(),
		Rows:    e.tbl.Rows(),
		Seq:     e.seq,
		Time:    time.Now(),
	}
}

// publishLocked sends the current state to every listener.
func (e *Engine) publishLocked() {
	e.seq++
	if len(e.listeners) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, l := range e.listeners {
		l(snap)
	}
}
