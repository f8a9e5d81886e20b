package diff

import (
	"errors"
	"fmt"

	"github.com/tablo-edit/tablo/internal/table"
)

// ErrLayoutMismatch indicates that the current table does not match the
// new layout a diff was computed against.
var ErrLayoutMismatch = errors.New("current table does not match diff layout")

// CellKind classifies one rendered cell.
type CellKind uint8

const (
	// CellData is a cell carrying table content.
	CellData CellKind = iota

	// CellPlaceholder marks a position that does not exist in the
	// layout the row was written in (the "hatched" cell).
	CellPlaceholder
)

// String returns a wire-friendly name for the cell kind.
func (k CellKind) String() string {
	if k == CellPlaceholder {
		return "placeholder"
	}
	return "data"
}

// Cell is one rendered cell of the annotated grid.
type Cell struct {
	Kind  CellKind
	Value string
}

// ColumnKind classifies one column of the annotated grid.
type ColumnKind uint8

const (
	// ColumnKept exists in both layouts.
	ColumnKept ColumnKind = iota

	// ColumnAdded exists only in the new layout.
	ColumnAdded

	// ColumnDeleted exists only in the old layout and is shown in place.
	ColumnDeleted
)

// String returns a wire-friendly name for the column kind.
func (k ColumnKind) String() string {
	switch k {
	case ColumnAdded:
		return "added"
	case ColumnDeleted:
		return "deleted"
	default:
		return "kept"
	}
}

// GridColumn is one column of the annotated grid. OldIndex is -1 for
// added columns and NewIndex is -1 for deleted ones.
type GridColumn struct {
	Kind     ColumnKind
	Header   string
	OldIndex int
	NewIndex int
}

// GridRow is one row of the annotated grid. Deleted rows carry one cell
// per old column plus a placeholder at each added-column position; all
// other rows carry current table data at the current column count.
type GridRow struct {
	Kind     RowKind
	OldIndex int
	NewIndex int
	Cells    []Cell
}

// Grid is the annotated, renderable reconciliation of a diff against the
// current table.
type Grid struct {
	Columns []GridColumn
	Rows    []GridRow
}

// HasChanges reports whether the grid contains any structural change.
func (g *Grid) HasChanges() bool {
	for _, c := range g.Columns {
		if c.Kind != ColumnKept {
			return true
		}
	}
	for _, r := range g.Rows {
		if r.Kind != RowKept {
			return true
		}
	}
	return false
}

// columnSlot is one position of the merged old/new column timeline.
type columnSlot struct {
	kind     ColumnKind
	oldIndex int
	newIndex int
}

// timeline interleaves kept, deleted, and added columns in display
// order: old-only columns surface where they used to sit, new-only
// columns where they were inserted.
func (d ColumnDiff) timeline() []columnSlot {
	var slots []columnSlot
	o, n := 0, 0
	emitGap := func(oldStop, newStop int) {
		for o < oldStop {
			slots = append(slots, columnSlot{kind: ColumnDeleted, oldIndex: o, newIndex: -1})
			o++
		}
		for n < newStop {
			slots = append(slots, columnSlot{kind: ColumnAdded, oldIndex: -1, newIndex: n})
			n++
		}
	}
	for _, p := range d.pairs {
		emitGap(p[0], p[1])
		slots = append(slots, columnSlot{kind: ColumnKept, oldIndex: p[0], newIndex: p[1]})
		o, n = p[0]+1, p[1]+1
	}
	emitGap(d.OldColumnCount, d.NewColumnCount)
	return slots
}

// Reconcile merges the column diff and row diff with the current table
// into an annotated grid. The current table must have the new layout the
// diffs were computed against.
func Reconcile(current *table.Table, cd ColumnDiff, rd RowDiff) (*Grid, error) {
	if current.ColumnCount() != cd.NewColumnCount {
		return nil, fmt.Errorf("table has %d columns, diff expects %d: %w",
			current.ColumnCount(), cd.NewColumnCount, ErrLayoutMismatch)
	}
	if current.RowCount() != rd.NewRowCount {
		return nil, fmt.Errorf("table has %d rows, diff expects %d: %w",
			current.RowCount(), rd.NewRowCount, ErrLayoutMismatch)
	}

	slots := cd.timeline()
	headers := current.Headers()

	grid := &Grid{Columns: make([]GridColumn, len(slots))}
	for i, slot := range slots {
		col := GridColumn{Kind: slot.kind, OldIndex: slot.oldIndex, NewIndex: slot.newIndex}
		if slot.kind == ColumnDeleted {
			col.Header = cd.OldHeaders[slot.oldIndex]
		} else {
			col.Header = headers[slot.newIndex]
		}
		grid.Columns[i] = col
	}

	for _, entry := range rd.Entries {
		switch entry.Kind {
		case RowDeleted:
			grid.Rows = append(grid.Rows, GridRow{
				Kind:     RowDeleted,
				OldIndex: entry.OldIndex,
				NewIndex: -1,
				Cells:    deletedRowCells(entry.Line, cd, slots),
			})
		default:
			cells, err := current.Row(entry.NewIndex)
			if err != nil {
				return nil, fmt.Errorf("reconcile row %d: %w", entry.NewIndex, err)
			}
			row := GridRow{
				Kind:     entry.Kind,
				OldIndex: entry.OldIndex,
				NewIndex: entry.NewIndex,
				Cells:    make([]Cell, len(cells)),
			}
			for i, v := range cells {
				row.Cells[i] = Cell{Kind: CellData, Value: v}
			}
			grid.Rows = append(grid.Rows, row)
		}
	}
	return grid, nil
}

// deletedRowCells renders a deleted row against the layout it was
// written in: one data cell per old column, restored in place, and a
// placeholder wherever the new layout inserted a column. Rows whose
// serialized content disagrees with the old column count are padded with
// empty cells rather than rejected.
func deletedRowCells(line string, cd ColumnDiff, slots []columnSlot) []Cell {
	old := table.SplitKey(line)
	for len(old) < cd.OldColumnCount {
		old = append(old, "")
	}
	cells := make([]Cell, len(slots))
	for i, slot := range slots {
		if slot.kind == ColumnAdded {
			cells[i] = Cell{Kind: CellPlaceholder}
			continue
		}
		cells[i] = Cell{Kind: CellData, Value: old[slot.oldIndex]}
	}
	return cells
}
