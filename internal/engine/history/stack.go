package history

import (
	"errors"
	"sync"
	"time"

	"github.com/tablo-edit/tablo/internal/table"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// Entry wraps one recorded undo unit with metadata.
type Entry struct {
	command   Command
	seq       uint64
	timestamp time.Time
}

// History manages undo/redo state for one table.
// An entry lives on exactly one stack at a time, so undoing an entry
// twice or redoing an entry that was never undone is impossible.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry
	nextSeq   uint64

	// Grouping state
	grouping  bool
	groupName string
	groupCmds []Command

	maxEntries int
}

// NewHistory creates a history with the given capacity. A non-positive
// capacity selects DefaultMaxEntries.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Execute runs a command against the table and records it.
func (h *History) Execute(cmd Command, tbl *table.Table) error {
	if err := cmd.Execute(tbl); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push records an already-executed command. While a group is open the
// command joins the group instead of the stack.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		// The group's command has already mutated the table, so any
		// redoable future is invalid now, not at EndGroup.
		h.redoStack = nil
		h.groupCmds = append(h.groupCmds, cmd)
		return
	}
	h.pushLocked(cmd)
}

// pushLocked records a command without acquiring the lock.
func (h *History) pushLocked(cmd Command) {
	h.nextSeq++
	h.undoStack = append(h.undoStack, &Entry{
		command:   cmd,
		seq:       h.nextSeq,
		timestamp: time.Now(),
	})

	// A new edit invalidates any redoable future.
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo reverses the most recent entry and moves it to the redo stack.
// Returns ErrNothingToUndo when the undo stack is empty.
func (h *History) Undo(tbl *table.Table) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	if err := entry.command.Undo(tbl); err != nil {
		return err
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return nil
}

// Redo re-applies the most recently undone entry and moves it back to
// the undo stack. Returns ErrNothingToRedo when the redo stack is empty.
func (h *History) Redo(tbl *table.Table) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	if err := entry.command.Execute(tbl); err != nil {
		return err
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return nil
}

// CanUndo reports whether undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo reports whether redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undoable entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redoable entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts a command group. Commands pushed while grouping are
// combined into a single undo unit. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupCmds = nil
}

// EndGroup finishes a command group, recording everything pushed since
// BeginGroup as one CompoundCommand. An empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	if len(h.groupCmds) == 0 {
		h.groupCmds = nil
		return
	}
	h.pushLocked(&CompoundCommand{Name: h.groupName, Commands: h.groupCmds})
	h.groupCmds = nil
}

// CancelGroup abandons an open group without recording it.
// Commands already executed still affect the table.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupCmds = nil
}

// IsGrouping reports whether a command group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear removes all undo/redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupCmds = nil
}

// EntryInfo describes one recorded entry for display.
type EntryInfo struct {
	Description string
	Seq         uint64
	Timestamp   time.Time
}

// UndoInfo returns display info for the undo stack, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return entryInfo(h.undoStack)
}

// RedoInfo returns display info for the redo stack, oldest first.
func (h *History) RedoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return entryInfo(h.redoStack)
}

func entryInfo(entries []*Entry) []EntryInfo {
	result := make([]EntryInfo, len(entries))
	for i, entry := range entries {
		result[i] = EntryInfo{
			Description: entry.command.Description(),
			Seq:         entry.seq,
			Timestamp:   entry.timestamp,
		}
	}
	return result
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return EntryInfo{}, false
	}
	entry := h.undoStack[len(h.undoStack)-1]
	return EntryInfo{
		Description: entry.command.Description(),
		Seq:         entry.seq,
		Timestamp:   entry.timestamp,
	}, true
}

// SetMaxEntries changes the undo capacity, evicting oldest entries if
// the stack is already larger.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}
