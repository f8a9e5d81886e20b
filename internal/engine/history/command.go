package history

import (
	"fmt"

	"github.com/tablo-edit/tablo/internal/table"
)

// Command represents an invertible table mutation.
type Command interface {
	// Execute performs the command against the table, capturing whatever
	// prior state is needed to undo it. On error the table is unchanged.
	Execute(tbl *table.Table) error

	// Undo reverses a previously executed command exactly.
	Undo(tbl *table.Table) error

	// Description returns a human-readable description of the command.
	Description() string
}

// Compile-time checks that every operation kind implements Command.
// A new operation kind that misses Execute/Undo fails to build here.
var (
	_ Command = (*UpdateCellCommand)(nil)
	_ Command = (*BulkUpdateCommand)(nil)
	_ Command = (*UpdateHeaderCommand)(nil)
	_ Command = (*AddRowCommand)(nil)
	_ Command = (*DeleteRowsCommand)(nil)
	_ Command = (*AddColumnCommand)(nil)
	_ Command = (*DeleteColumnsCommand)(nil)
	_ Command = (*SortCommand)(nil)
	_ Command = (*MoveRowCommand)(nil)
	_ Command = (*MoveColumnCommand)(nil)
	_ Command = (*CompoundCommand)(nil)
)

// UpdateCellCommand replaces the value of a single cell.
type UpdateCellCommand struct {
	Row   int
	Col   int
	Value string

	prev string
}

// NewUpdateCellCommand creates a single-cell update.
func NewUpdateCellCommand(row, col int, value string) *UpdateCellCommand {
	return &UpdateCellCommand{Row: row, Col: col, Value: value}
}

// Execute writes the new value, remembering the previous one.
func (c *UpdateCellCommand) Execute(tbl *table.Table) error {
	prev, err := tbl.SetCell(c.Row, c.Col, c.Value)
	if err != nil {
		return fmt.Errorf("update cell: %w", err)
	}
	c.prev = prev
	return nil
}

// Undo restores the previous value.
func (c *UpdateCellCommand) Undo(tbl *table.Table) error {
	if _, err := tbl.SetCell(c.Row, c.Col, c.prev); err != nil {
		return fmt.Errorf("undo update cell: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *UpdateCellCommand) Description() string {
	return fmt.Sprintf("Edit cell (%d, %d)", c.Row, c.Col)
}

// CellUpdate is one target of a bulk cell update.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// BulkUpdateCommand replaces several cells in one operation. All targets
// are validated before any cell is written, so a bad index leaves the
// table untouched.
type BulkUpdateCommand struct {
	Updates []CellUpdate

	prev []string
}

// NewBulkUpdateCommand creates a bulk cell update.
func NewBulkUpdateCommand(updates []CellUpdate) *BulkUpdateCommand {
	return &BulkUpdateCommand{Updates: updates}
}

// Execute validates every target, then writes all values in order.
func (c *BulkUpdateCommand) Execute(tbl *table.Table) error {
	for _, u := range c.Updates {
		if _, err := tbl.Cell(u.Row, u.Col); err != nil {
			return fmt.Errorf("bulk update: %w", err)
		}
	}
	c.prev = make([]string, len(c.Updates))
	for i, u := range c.Updates {
		prev, err := tbl.SetCell(u.Row, u.Col, u.Value)
		if err != nil {
			return fmt.Errorf("bulk update: %w", err)
		}
		c.prev[i] = prev
	}
	return nil
}

// Undo restores every previous value, last-written-first.
func (c *BulkUpdateCommand) Undo(tbl *table.Table) error {
	for i := len(c.Updates) - 1; i >= 0; i-- {
		u := c.Updates[i]
		if _, err := tbl.SetCell(u.Row, u.Col, c.prev[i]); err != nil {
			return fmt.Errorf("undo bulk update: %w", err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (c *BulkUpdateCommand) Description() string {
	return fmt.Sprintf("Edit %d cells", len(c.Updates))
}

// UpdateHeaderCommand replaces the header text of a column.
type UpdateHeaderCommand struct {
	Col   int
	Value string

	prev string
}

// NewUpdateHeaderCommand creates a header update.
func NewUpdateHeaderCommand(col int, value string) *UpdateHeaderCommand {
	return &UpdateHeaderCommand{Col: col, Value: value}
}

// Execute writes the new header text, remembering the previous one.
func (c *UpdateHeaderCommand) Execute(tbl *table.Table) error {
	prev, err := tbl.SetHeader(c.Col, c.Value)
	if err != nil {
		return fmt.Errorf("update header: %w", err)
	}
	c.prev = prev
	return nil
}

// Undo restores the previous header text.
func (c *UpdateHeaderCommand) Undo(tbl *table.Table) error {
	if _, err := tbl.SetHeader(c.Col, c.prev); err != nil {
		return fmt.Errorf("undo update header: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *UpdateHeaderCommand) Description() string {
	return fmt.Sprintf("Edit header %d", c.Col)
}

// AddRowCommand inserts a row. A negative Index appends. Nil Cells insert
// a blank row.
type AddRowCommand struct {
	Index int
	Cells []string

	at int
}

// NewAddRowCommand creates a row insertion. Pass index -1 to append.
func NewAddRowCommand(index int, cells []string) *AddRowCommand {
	return &AddRowCommand{Index: index, Cells: cells}
}

// Execute inserts the row, recording where it landed.
func (c *AddRowCommand) Execute(tbl *table.Table) error {
	at := c.Index
	if at < 0 {
		at = tbl.RowCount()
	}
	cells := c.Cells
	if cells == nil {
		cells = make([]string, tbl.ColumnCount())
	}
	if err := tbl.InsertRow(at, cells); err != nil {
		return fmt.Errorf("add row: %w", err)
	}
	c.at = at
	return nil
}

// Undo removes the inserted row.
func (c *AddRowCommand) Undo(tbl *table.Table) error {
	if _, err := tbl.RemoveRow(c.at); err != nil {
		return fmt.Errorf("undo add row: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *AddRowCommand) Description() string { return "Add row" }

// deletedRow captures one removed row for reinsertion.
type deletedRow struct {
	index int
	cells []string
}

// DeleteRowsCommand removes one or more rows by index. Indices are
// validated as a set before anything is removed.
type DeleteRowsCommand struct {
	Indices []int

	removed []deletedRow
}

// NewDeleteRowsCommand creates a multi-row deletion.
func NewDeleteRowsCommand(indices []int) *DeleteRowsCommand {
	return &DeleteRowsCommand{Indices: indices}
}

// Execute removes the rows highest-index-first so earlier removals do not
// shift later targets.
func (c *DeleteRowsCommand) Execute(tbl *table.Table) error {
	order, err := uniqueDescending(c.Indices, tbl.RowCount(), table.ErrRowOutOfRange)
	if err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}
	c.removed = c.removed[:0]
	for _, idx := range order {
		cells, err := tbl.RemoveRow(idx)
		if err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		c.removed = append(c.removed, deletedRow{index: idx, cells: cells})
	}
	return nil
}

// Undo reinserts the rows lowest-index-first, restoring original order.
func (c *DeleteRowsCommand) Undo(tbl *table.Table) error {
	for i := len(c.removed) - 1; i >= 0; i-- {
		r := c.removed[i]
		if err := tbl.InsertRow(r.index, r.cells); err != nil {
			return fmt.Errorf("undo delete rows: %w", err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (c *DeleteRowsCommand) Description() string {
	if len(c.Indices) == 1 {
		return "Delete row"
	}
	return fmt.Sprintf("Delete %d rows", len(c.Indices))
}

// AddColumnCommand inserts a column. A negative Index appends. The new
// column's cells are blank.
type AddColumnCommand struct {
	Index  int
	Header string

	at int
}

// NewAddColumnCommand creates a column insertion. Pass index -1 to append.
func NewAddColumnCommand(index int, header string) *AddColumnCommand {
	return &AddColumnCommand{Index: index, Header: header}
}

// Execute inserts the column, recording where it landed.
func (c *AddColumnCommand) Execute(tbl *table.Table) error {
	at := c.Index
	if at < 0 {
		at = tbl.ColumnCount()
	}
	if err := tbl.InsertColumn(at, c.Header, nil); err != nil {
		return fmt.Errorf("add column: %w", err)
	}
	c.at = at
	return nil
}

// Undo removes the inserted column.
func (c *AddColumnCommand) Undo(tbl *table.Table) error {
	if _, _, err := tbl.RemoveColumn(c.at); err != nil {
		return fmt.Errorf("undo add column: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *AddColumnCommand) Description() string {
	return fmt.Sprintf("Add column %q", c.Header)
}

// deletedColumn captures one removed column for reinsertion.
type deletedColumn struct {
	index  int
	header string
	cells  []string
}

// DeleteColumnsCommand removes one or more columns by index.
type DeleteColumnsCommand struct {
	Indices []int

	removed []deletedColumn
}

// NewDeleteColumnsCommand creates a multi-column deletion.
func NewDeleteColumnsCommand(indices []int) *DeleteColumnsCommand {
	return &DeleteColumnsCommand{Indices: indices}
}

// Execute removes the columns highest-index-first.
func (c *DeleteColumnsCommand) Execute(tbl *table.Table) error {
	order, err := uniqueDescending(c.Indices, tbl.ColumnCount(), table.ErrColumnOutOfRange)
	if err != nil {
		return fmt.Errorf("delete columns: %w", err)
	}
	c.removed = c.removed[:0]
	for _, idx := range order {
		header, cells, err := tbl.RemoveColumn(idx)
		if err != nil {
			return fmt.Errorf("delete columns: %w", err)
		}
		c.removed = append(c.removed, deletedColumn{index: idx, header: header, cells: cells})
	}
	return nil
}

// Undo reinserts the columns lowest-index-first.
func (c *DeleteColumnsCommand) Undo(tbl *table.Table) error {
	for i := len(c.removed) - 1; i >= 0; i-- {
		col := c.removed[i]
		if err := tbl.InsertColumn(col.index, col.header, col.cells); err != nil {
			return fmt.Errorf("undo delete columns: %w", err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (c *DeleteColumnsCommand) Description() string {
	if len(c.Indices) == 1 {
		return "Delete column"
	}
	return fmt.Sprintf("Delete %d columns", len(c.Indices))
}

// MoveRowCommand moves a row from one index to another using
// remove-then-insert semantics: the target index is interpreted against
// the sequence after removal.
type MoveRowCommand struct {
	From int
	To   int
}

// NewMoveRowCommand creates a row move.
func NewMoveRowCommand(from, to int) *MoveRowCommand {
	return &MoveRowCommand{From: from, To: to}
}

// Execute moves the row.
func (c *MoveRowCommand) Execute(tbl *table.Table) error {
	if err := tbl.MoveRow(c.From, c.To); err != nil {
		return fmt.Errorf("move row: %w", err)
	}
	return nil
}

// Undo moves the row back. The moved row always lands exactly at To, so
// the inverse is the mirrored move.
func (c *MoveRowCommand) Undo(tbl *table.Table) error {
	if err := tbl.MoveRow(c.To, c.From); err != nil {
		return fmt.Errorf("undo move row: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *MoveRowCommand) Description() string {
	return fmt.Sprintf("Move row %d to %d", c.From, c.To)
}

// MoveColumnCommand moves a column, with the same semantics as MoveRowCommand.
type MoveColumnCommand struct {
	From int
	To   int
}

// NewMoveColumnCommand creates a column move.
func NewMoveColumnCommand(from, to int) *MoveColumnCommand {
	return &MoveColumnCommand{From: from, To: to}
}

// Execute moves the column.
func (c *MoveColumnCommand) Execute(tbl *table.Table) error {
	if err := tbl.MoveColumn(c.From, c.To); err != nil {
		return fmt.Errorf("move column: %w", err)
	}
	return nil
}

// Undo moves the column back.
func (c *MoveColumnCommand) Undo(tbl *table.Table) error {
	if err := tbl.MoveColumn(c.To, c.From); err != nil {
		return fmt.Errorf("undo move column: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *MoveColumnCommand) Description() string {
	return fmt.Sprintf("Move column %d to %d", c.From, c.To)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{Name: name, Commands: commands}
}

// Execute runs all commands in order. On error, already-executed commands
// are undone so the table is unchanged.
func (c *CompoundCommand) Execute(tbl *table.Table) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(tbl); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(tbl)
			}
			return fmt.Errorf("compound command %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(tbl *table.Table) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(tbl); err != nil {
			return fmt.Errorf("undo compound command %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add appends a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty reports whether the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}

// uniqueDescending validates indices against limit and returns them
// sorted highest first. Duplicates and out-of-range values are rejected
// before any mutation happens.
func uniqueDescending(indices []int, limit int, outOfRange error) ([]int, error) {
	seen := make(map[int]bool, len(indices))
	order := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= limit {
			return nil, fmt.Errorf("index %d of %d: %w", idx, limit, outOfRange)
		}
		if seen[idx] {
			return nil, fmt.Errorf("duplicate index %d: %w", idx, outOfRange)
		}
		seen[idx] = true
		order = append(order, idx)
	}
	// insertion sort, descending; index lists are small
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j] > order[j-1]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order, nil
}
