package history

import (
	"errors"
	"testing"

	"github.com/tablo-edit/tablo/internal/table"
)

func newTestTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"ID", "Name", "Score"},
		[][]string{
			{"1", "ada", "30"},
			{"2", "bob", "7"},
			{"3", "cyd", "19"},
			{"4", "dee", "7"},
		},
	)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl
}

// checkInverts executes the command, undoes it, and verifies the table
// equals its original content.
func checkInverts(t *testing.T, tbl *table.Table, cmd Command) {
	t.Helper()
	before := tbl.Clone()
	if err := cmd.Execute(tbl); err != nil {
		t.Fatalf("Execute(%s): %v", cmd.Description(), err)
	}
	if err := cmd.Undo(tbl); err != nil {
		t.Fatalf("Undo(%s): %v", cmd.Description(), err)
	}
	if !tbl.Equal(before) {
		t.Errorf("%s: undo did not restore original table", cmd.Description())
	}
}

func TestCommandInvertibility(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{"update cell", NewUpdateCellCommand(1, 2, "99")},
		{"bulk update", NewBulkUpdateCommand([]CellUpdate{
			{Row: 0, Col: 0, Value: "x"},
			{Row: 3, Col: 2, Value: "y"},
			{Row: 0, Col: 0, Value: "z"}, // same cell twice
		})},
		{"update header", NewUpdateHeaderCommand(1, "FullName")},
		{"add row at index", NewAddRowCommand(2, []string{"5", "eli", "1"})},
		{"add row append", NewAddRowCommand(-1, nil)},
		{"delete one row", NewDeleteRowsCommand([]int{1})},
		{"delete several rows", NewDeleteRowsCommand([]int{3, 0, 2})},
		{"add column at index", NewAddColumnCommand(1, "Email")},
		{"add column append", NewAddColumnCommand(-1, "Email")},
		{"delete one column", NewDeleteColumnsCommand([]int{0})},
		{"delete several columns", NewDeleteColumnsCommand([]int{2, 0})},
		{"sort asc", NewSortCommand(2, SortAscending)},
		{"sort desc", NewSortCommand(1, SortDescending)},
		{"sort none", NewSortCommand(0, SortNone)},
		{"move row forward", NewMoveRowCommand(1, 3)},
		{"move row backward", NewMoveRowCommand(3, 0)},
		{"move column forward", NewMoveColumnCommand(0, 2)},
		{"move column backward", NewMoveColumnCommand(2, 1)},
		{"compound", NewCompoundCommand("edit",
			NewUpdateCellCommand(0, 1, "eve"),
			NewDeleteRowsCommand([]int{2}),
			NewAddColumnCommand(1, "Tag"),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkInverts(t, newTestTable(t), tt.cmd)
		})
	}
}

func TestColumnCountInvariantAfterEveryCommand(t *testing.T) {
	tbl := newTestTable(t)
	cmds := []Command{
		NewAddColumnCommand(1, "Email"),
		NewAddRowCommand(0, nil),
		NewDeleteColumnsCommand([]int{3}),
		NewSortCommand(0, SortDescending),
		NewMoveColumnCommand(2, 0),
		NewDeleteRowsCommand([]int{4}),
	}
	check := func(stage string) {
		for i := 0; i < tbl.RowCount(); i++ {
			row, err := tbl.Row(i)
			if err != nil {
				t.Fatalf("%s: Row(%d): %v", stage, i, err)
			}
			if len(row) != tbl.ColumnCount() {
				t.Fatalf("%s: row %d has %d cells, headers %d", stage, i, len(row), tbl.ColumnCount())
			}
		}
	}
	for _, cmd := range cmds {
		if err := cmd.Execute(tbl); err != nil {
			t.Fatalf("Execute(%s): %v", cmd.Description(), err)
		}
		check("after " + cmd.Description())
	}
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Undo(tbl); err != nil {
			t.Fatalf("Undo(%s): %v", cmds[i].Description(), err)
		}
		check("after undo " + cmds[i].Description())
	}
	if !tbl.Equal(newTestTable(t)) {
		t.Error("unwinding all commands did not restore the original table")
	}
}

func TestUpdateCellOutOfRange(t *testing.T) {
	tbl := newTestTable(t)
	before := tbl.Clone()
	err := NewUpdateCellCommand(9, 0, "x").Execute(tbl)
	if !errors.Is(err, table.ErrRowOutOfRange) {
		t.Fatalf("err = %v, want ErrRowOutOfRange", err)
	}
	if !tbl.Equal(before) {
		t.Error("failed command mutated the table")
	}
}

func TestBulkUpdateValidatesBeforeWriting(t *testing.T) {
	tbl := newTestTable(t)
	before := tbl.Clone()
	cmd := NewBulkUpdateCommand([]CellUpdate{
		{Row: 0, Col: 0, Value: "x"},
		{Row: 9, Col: 0, Value: "boom"},
	})
	if err := cmd.Execute(tbl); !errors.Is(err, table.ErrRowOutOfRange) {
		t.Fatalf("err = %v, want ErrRowOutOfRange", err)
	}
	if !tbl.Equal(before) {
		t.Error("partially applied bulk update")
	}
}

func TestDeleteRowsRejectsDuplicates(t *testing.T) {
	tbl := newTestTable(t)
	before := tbl.Clone()
	if err := NewDeleteRowsCommand([]int{1, 1}).Execute(tbl); err == nil {
		t.Fatal("expected error for duplicate indices")
	}
	if !tbl.Equal(before) {
		t.Error("failed delete mutated the table")
	}
}

func TestDeleteRowsUnsortedIndices(t *testing.T) {
	tbl := newTestTable(t)
	cmd := NewDeleteRowsCommand([]int{0, 2})
	if err := cmd.Execute(tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", tbl.RowCount())
	}
	got, _ := tbl.Cell(0, 1)
	if got != "bob" {
		t.Errorf("remaining first row = %q, want bob", got)
	}
	got, _ = tbl.Cell(1, 1)
	if got != "dee" {
		t.Errorf("remaining second row = %q, want dee", got)
	}
}

func TestSortStableAndNumeric(t *testing.T) {
	tbl := newTestTable(t)
	cmd := NewSortCommand(2, SortAscending)
	if err := cmd.Execute(tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Score column is numeric: 7, 7, 19, 30. The two 7s keep their
	// document order (bob before dee).
	wantNames := []string{"bob", "dee", "cyd", "ada"}
	for i, want := range wantNames {
		got, _ := tbl.Cell(i, 1)
		if got != want {
			t.Errorf("row %d name = %q, want %q", i, got, want)
		}
	}
}

func TestSortNoneIsIdentity(t *testing.T) {
	tbl := newTestTable(t)
	before := tbl.Clone()
	cmd := NewSortCommand(1, SortNone)
	if err := cmd.Execute(tbl); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !tbl.Equal(before) {
		t.Error("SortNone reordered rows")
	}
}

func TestCompoundRollsBackOnFailure(t *testing.T) {
	tbl := newTestTable(t)
	before := tbl.Clone()
	cmd := NewCompoundCommand("bad batch",
		NewUpdateCellCommand(0, 0, "changed"),
		NewDeleteRowsCommand([]int{99}),
	)
	if err := cmd.Execute(tbl); err == nil {
		t.Fatal("expected error from out-of-range step")
	}
	if !tbl.Equal(before) {
		t.Error("failed compound left partial changes")
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    SortDirection
		wantErr bool
	}{
		{"asc", SortAscending, false},
		{"desc", SortDescending, false},
		{"none", SortNone, false},
		{"", SortNone, false},
		{"sideways", SortNone, true},
	}
	for _, tt := range tests {
		got, err := ParseSortDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortDirection(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSortDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
