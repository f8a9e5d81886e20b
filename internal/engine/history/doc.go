// Package history provides the invertible edit-operation set and the
// undo/redo stacks for a table editing session.
//
// # Commands
//
// Every table mutation is a Command: it executes against a table.Table,
// captures whatever prior state it needs at execute time, and can undo
// itself exactly. The set is closed: UpdateCell, BulkUpdateCells,
// UpdateHeader, AddRow, DeleteRows, AddColumn, DeleteColumns, Sort,
// MoveRow, MoveColumn, plus CompoundCommand used for grouping. Executing
// a command and then undoing it restores the table to a state equal in
// content to the original.
//
// # History stack
//
// History keeps two stacks. Push records a command and clears the redo
// stack (a new edit invalidates any redoable future). Undo pops, undoes,
// and moves the entry to the redo stack; Redo is the mirror image. The
// stacks are bounded: once the undo stack exceeds its capacity the oldest
// entries are evicted, which never breaks the remaining entries because
// each command is self-contained.
//
// # Grouping
//
// Commands pushed between BeginGroup and EndGroup coalesce into one
// CompoundCommand so one user gesture (a multi-cell paste, a scripted
// transform) undoes atomically, last-executed-first-undone.
package history
