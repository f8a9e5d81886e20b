package table

import (
	"errors"
	"testing"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"Name", "Role", "Team"},
		[][]string{
			{"ada", "eng", "core"},
			{"bob", "ops", "infra"},
			{"cyd", "eng", "infra"},
		},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tbl
}

func TestNewRejectsRaggedRows(t *testing.T) {
	_, err := New([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}})
	if !errors.Is(err, ErrColumnCountMismatch) {
		t.Fatalf("err = %v, want ErrColumnCountMismatch", err)
	}
}

func TestSetCellReturnsPrevious(t *testing.T) {
	tbl := newTestTable(t)
	prev, err := tbl.SetCell(1, 2, "core")
	if err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if prev != "infra" {
		t.Errorf("prev = %q, want %q", prev, "infra")
	}
	got, _ := tbl.Cell(1, 2)
	if got != "core" {
		t.Errorf("cell = %q, want %q", got, "core")
	}
}

func TestCellBounds(t *testing.T) {
	tbl := newTestTable(t)
	tests := []struct {
		name     string
		row, col int
		want     error
	}{
		{"row negative", -1, 0, ErrRowOutOfRange},
		{"row too large", 3, 0, ErrRowOutOfRange},
		{"col negative", 0, -1, ErrColumnOutOfRange},
		{"col too large", 0, 3, ErrColumnOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tbl.Cell(tt.row, tt.col); !errors.Is(err, tt.want) {
				t.Errorf("Cell(%d,%d) err = %v, want %v", tt.row, tt.col, err, tt.want)
			}
			if _, err := tbl.SetCell(tt.row, tt.col, "x"); !errors.Is(err, tt.want) {
				t.Errorf("SetCell(%d,%d) err = %v, want %v", tt.row, tt.col, err, tt.want)
			}
		})
	}
}

func TestInsertAndRemoveRow(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.InsertRow(1, []string{"dee", "pm", "core"}); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if tbl.RowCount() != 4 {
		t.Fatalf("RowCount = %d, want 4", tbl.RowCount())
	}
	row, _ := tbl.Row(1)
	if row[0] != "dee" {
		t.Errorf("row[1][0] = %q, want %q", row[0], "dee")
	}

	cells, err := tbl.RemoveRow(1)
	if err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	if cells[0] != "dee" {
		t.Errorf("removed[0] = %q, want %q", cells[0], "dee")
	}
	if !tbl.Equal(newTestTable(t)) {
		t.Error("insert+remove did not restore original table")
	}
}

func TestInsertRowWrongWidth(t *testing.T) {
	tbl := newTestTable(t)
	err := tbl.InsertRow(0, []string{"just one"})
	if !errors.Is(err, ErrColumnCountMismatch) {
		t.Fatalf("err = %v, want ErrColumnCountMismatch", err)
	}
	if tbl.RowCount() != 3 {
		t.Error("failed insert mutated the table")
	}
}

func TestInsertColumnKeepsRowsRectangular(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.InsertColumn(1, "Site", []string{"nyc", "sfo", "nyc"}); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	if tbl.ColumnCount() != 4 {
		t.Fatalf("ColumnCount = %d, want 4", tbl.ColumnCount())
	}
	for i := 0; i < tbl.RowCount(); i++ {
		row, _ := tbl.Row(i)
		if len(row) != 4 {
			t.Fatalf("row %d has %d cells, want 4", i, len(row))
		}
	}
	got, _ := tbl.Cell(1, 1)
	if got != "sfo" {
		t.Errorf("cell(1,1) = %q, want %q", got, "sfo")
	}
}

func TestInsertColumnEmptyCells(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.InsertColumn(3, "Notes", nil); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	got, _ := tbl.Cell(2, 3)
	if got != "" {
		t.Errorf("cell(2,3) = %q, want empty", got)
	}
}

func TestRemoveColumn(t *testing.T) {
	tbl := newTestTable(t)
	header, cells, err := tbl.RemoveColumn(1)
	if err != nil {
		t.Fatalf("RemoveColumn: %v", err)
	}
	if header != "Role" {
		t.Errorf("header = %q, want %q", header, "Role")
	}
	if len(cells) != 3 || cells[0] != "eng" || cells[1] != "ops" {
		t.Errorf("cells = %v", cells)
	}
	for i := 0; i < tbl.RowCount(); i++ {
		row, _ := tbl.Row(i)
		if len(row) != tbl.ColumnCount() {
			t.Fatalf("row %d width %d, headers %d", i, len(row), tbl.ColumnCount())
		}
	}
}

func TestMoveRowSemantics(t *testing.T) {
	tbl, err := New([]string{"V"}, [][]string{{"r0"}, {"r1"}, {"r2"}, {"r3"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbl.MoveRow(1, 3); err != nil {
		t.Fatalf("MoveRow: %v", err)
	}
	want := []string{"r0", "r2", "r3", "r1"}
	for i, w := range want {
		got, _ := tbl.Cell(i, 0)
		if got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}
}

func TestMoveColumn(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.MoveColumn(0, 2); err != nil {
		t.Fatalf("MoveColumn: %v", err)
	}
	want := []string{"Role", "Team", "Name"}
	for i, w := range want {
		got, _ := tbl.Header(i)
		if got != w {
			t.Errorf("header %d = %q, want %q", i, got, w)
		}
	}
	got, _ := tbl.Cell(0, 2)
	if got != "ada" {
		t.Errorf("cell(0,2) = %q, want %q", got, "ada")
	}
}

func TestReorderRows(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.ReorderRows([]int{2, 0, 1}); err != nil {
		t.Fatalf("ReorderRows: %v", err)
	}
	got, _ := tbl.Cell(0, 0)
	if got != "cyd" {
		t.Errorf("cell(0,0) = %q, want %q", got, "cyd")
	}

	if err := tbl.ReorderRows([]int{0, 0, 1}); !errors.Is(err, ErrBadPermutation) {
		t.Errorf("duplicate entry err = %v, want ErrBadPermutation", err)
	}
	if err := tbl.ReorderRows([]int{0, 1}); !errors.Is(err, ErrBadPermutation) {
		t.Errorf("short permutation err = %v, want ErrBadPermutation", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	tbl := newTestTable(t)
	clone := tbl.Clone()
	if _, err := tbl.SetCell(0, 0, "zed"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	got, _ := clone.Cell(0, 0)
	if got != "ada" {
		t.Errorf("clone observed mutation: cell = %q", got)
	}
}

func TestRowKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
	}{
		{"plain", []string{"a", "b", "c"}},
		{"embedded pipe", []string{"a|b", "c"}},
		{"embedded backslash", []string{`a\`, "b"}},
		{"empty cells", []string{"", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := JoinKey(tt.cells)
			got := SplitKey(key)
			if len(got) != len(tt.cells) {
				t.Fatalf("SplitKey gave %d cells, want %d", len(got), len(tt.cells))
			}
			for i := range got {
				if got[i] != tt.cells[i] {
					t.Errorf("cell %d = %q, want %q", i, got[i], tt.cells[i])
				}
			}
		})
	}
}

func TestRowKeysDistinguishRows(t *testing.T) {
	a := JoinKey([]string{"a|b", "c"})
	b := JoinKey([]string{"a", "b|c"})
	if a == b {
		t.Error("keys for distinct rows collide")
	}
}
