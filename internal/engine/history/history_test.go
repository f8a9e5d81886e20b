package history

import (
	"errors"
	"fmt"
	"testing"
)

func TestUndoEmptyStack(t *testing.T) {
	h := NewHistory(10)
	if err := h.Undo(newTestTable(t)); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
}

func TestRedoEmptyStack(t *testing.T) {
	h := NewHistory(10)
	if err := h.Redo(newTestTable(t)); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)

	if err := h.Execute(NewUpdateCellCommand(0, 1, "eve"), tbl); err != nil {
		t.Fatalf("Execute a: %v", err)
	}
	if err := h.Execute(NewDeleteRowsCommand([]int{2}), tbl); err != nil {
		t.Fatalf("Execute b: %v", err)
	}
	afterBoth := tbl.Clone()

	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if err := h.Redo(tbl); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if !tbl.Equal(afterBoth) {
		t.Error("undo+redo did not reproduce the recorded state")
	}
}

func TestNewRecordClearsRedo(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)

	if err := h.Execute(NewUpdateCellCommand(0, 1, "eve"), tbl); err != nil {
		t.Fatalf("Execute a: %v", err)
	}
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	if err := h.Execute(NewUpdateCellCommand(1, 1, "fay"), tbl); err != nil {
		t.Fatalf("Execute c: %v", err)
	}
	if h.CanRedo() {
		t.Error("new record should clear the redo stack")
	}
	if err := h.Redo(tbl); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoAllRestoresOriginal(t *testing.T) {
	tbl := newTestTable(t)
	original := tbl.Clone()
	h := NewHistory(100)

	cmds := []Command{
		NewAddColumnCommand(0, "Rank"),
		NewSortCommand(2, SortDescending),
		NewMoveRowCommand(0, 3),
		NewUpdateHeaderCommand(2, "Handle"),
		NewDeleteRowsCommand([]int{1, 3}),
	}
	for _, cmd := range cmds {
		if err := h.Execute(cmd, tbl); err != nil {
			t.Fatalf("Execute(%s): %v", cmd.Description(), err)
		}
	}
	for h.CanUndo() {
		if err := h.Undo(tbl); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	if !tbl.Equal(original) {
		t.Error("unwinding the full history did not restore the original table")
	}
}

func TestGrouping(t *testing.T) {
	tbl := newTestTable(t)
	original := tbl.Clone()
	h := NewHistory(10)

	h.BeginGroup("paste")
	if err := h.Execute(NewUpdateCellCommand(0, 0, "a"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := h.Execute(NewUpdateCellCommand(1, 0, "b"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := h.Execute(NewAddRowCommand(-1, nil), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	h.EndGroup()

	if got := h.UndoCount(); got != 1 {
		t.Fatalf("UndoCount = %d, want 1 grouped entry", got)
	}
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !tbl.Equal(original) {
		t.Error("grouped undo did not restore the original table")
	}
}

func TestGroupedCommandClearsRedo(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)

	if err := h.Execute(NewUpdateCellCommand(0, 0, "x"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := h.Undo(tbl); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("expected a redoable entry")
	}

	// The first command of an open group mutates the table, so the
	// redoable future must die immediately, not at EndGroup.
	h.BeginGroup("paste")
	if err := h.Execute(NewUpdateCellCommand(1, 0, "y"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if h.CanRedo() {
		t.Error("grouped command left a stale redo entry")
	}
	if err := h.Redo(tbl); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v, want ErrNothingToRedo", err)
	}
	h.EndGroup()
}

func TestEmptyGroupRecordsNothing(t *testing.T) {
	h := NewHistory(10)
	h.BeginGroup("noop")
	h.EndGroup()
	if h.CanUndo() {
		t.Error("empty group was recorded")
	}
}

func TestCancelGroup(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)

	h.BeginGroup("abandoned")
	if err := h.Execute(NewUpdateCellCommand(0, 0, "x"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	h.CancelGroup()

	if h.CanUndo() {
		t.Error("cancelled group was recorded")
	}
	if h.IsGrouping() {
		t.Error("still grouping after cancel")
	}
}

func TestCapacityEviction(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(3)

	for i := 0; i < 5; i++ {
		cmd := NewUpdateCellCommand(0, 0, fmt.Sprintf("v%d", i))
		if err := h.Execute(cmd, tbl); err != nil {
			t.Fatalf("Execute %d: %v", i, err)
		}
	}
	if got := h.UndoCount(); got != 3 {
		t.Fatalf("UndoCount = %d, want 3 after eviction", got)
	}
	// Remaining entries are still individually invertible.
	for h.CanUndo() {
		if err := h.Undo(tbl); err != nil {
			t.Fatalf("Undo: %v", err)
		}
	}
	got, _ := tbl.Cell(0, 0)
	if got != "v1" {
		t.Errorf("cell = %q, want %q (state before the oldest surviving entry)", got, "v1")
	}
}

func TestEntrySequenceNumbersIncrease(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)
	for i := 0; i < 3; i++ {
		if err := h.Execute(NewUpdateCellCommand(0, 0, fmt.Sprintf("v%d", i)), tbl); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	info := h.UndoInfo()
	if len(info) != 3 {
		t.Fatalf("UndoInfo length = %d", len(info))
	}
	for i := 1; i < len(info); i++ {
		if info[i].Seq <= info[i-1].Seq {
			t.Errorf("seq not increasing: %d then %d", info[i-1].Seq, info[i].Seq)
		}
	}
}

func TestPeekUndoDoesNotPop(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)
	if err := h.Execute(NewUpdateCellCommand(0, 0, "x"), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, ok := h.PeekUndo(); !ok {
		t.Fatal("PeekUndo reported empty stack")
	}
	if h.UndoCount() != 1 {
		t.Error("PeekUndo removed the entry")
	}
}

func TestFailedUndoKeepsEntry(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)
	if err := h.Execute(NewDeleteRowsCommand([]int{0}), tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Narrow the table behind the history's back so the undo cannot
	// reinsert the captured three-cell row.
	if _, _, err := tbl.RemoveColumn(0); err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if err := h.Undo(tbl); err == nil {
		t.Fatal("expected undo to fail against narrowed table")
	}
	if !h.CanUndo() {
		t.Error("failed undo dropped the entry")
	}
	if h.CanRedo() {
		t.Error("failed undo landed on the redo stack")
	}
}

func TestSetMaxEntriesShrinksStack(t *testing.T) {
	tbl := newTestTable(t)
	h := NewHistory(10)
	for i := 0; i < 5; i++ {
		if err := h.Execute(NewUpdateCellCommand(0, 0, fmt.Sprintf("v%d", i)), tbl); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	h.SetMaxEntries(2)
	if got := h.UndoCount(); got != 2 {
		t.Errorf("UndoCount = %d, want 2", got)
	}
}
