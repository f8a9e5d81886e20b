package table

import (
	"fmt"
	"strings"
)

// Table is the grid of headers and rows for one Markdown table.
// It is exclusively owned by a single editing session; callers must
// serialize access themselves.
type Table struct {
	headers []string
	rows    [][]string
}

// New creates a table from a header sequence and row data.
// Every row must have exactly one cell per header.
func New(headers []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w",
				i, len(row), len(headers), ErrColumnCountMismatch)
		}
	}
	t := &Table{
		headers: append([]string(nil), headers...),
		rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.rows[i] = append([]string(nil), row...)
	}
	return t, nil
}

// Empty creates a table with the given headers and no rows.
func Empty(headers []string) *Table {
	return &Table{headers: append([]string(nil), headers...)}
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.headers) }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Headers returns a copy of the header sequence.
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Header returns the header text for a column.
func (t *Table) Header(col int) (string, error) {
	if col < 0 || col >= len(t.headers) {
		return "", fmt.Errorf("header %d of %d: %w", col, len(t.headers), ErrColumnOutOfRange)
	}
	return t.headers[col], nil
}

// SetHeader replaces the header text for a column and returns the
// previous text.
func (t *Table) SetHeader(col int, value string) (string, error) {
	if col < 0 || col >= len(t.headers) {
		return "", fmt.Errorf("set header %d of %d: %w", col, len(t.headers), ErrColumnOutOfRange)
	}
	prev := t.headers[col]
	t.headers[col] = value
	return prev, nil
}

// Row returns a copy of the cells of one row.
func (t *Table) Row(row int) ([]string, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("row %d of %d: %w", row, len(t.rows), ErrRowOutOfRange)
	}
	return append([]string(nil), t.rows[row]...), nil
}

// Rows returns a deep copy of all row data.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append([]string(nil), row...)
	}
	return rows
}

// Cell returns the value at (row, col).
func (t *Table) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("cell row %d of %d: %w", row, len(t.rows), ErrRowOutOfRange)
	}
	if col < 0 || col >= len(t.headers) {
		return "", fmt.Errorf("cell col %d of %d: %w", col, len(t.headers), ErrColumnOutOfRange)
	}
	return t.rows[row][col], nil
}

// SetCell replaces the value at (row, col) and returns the previous value.
func (t *Table) SetCell(row, col int, value string) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("set cell row %d of %d: %w", row, len(t.rows), ErrRowOutOfRange)
	}
	if col < 0 || col >= len(t.headers) {
		return "", fmt.Errorf("set cell col %d of %d: %w", col, len(t.headers), ErrColumnOutOfRange)
	}
	prev := t.rows[row][col]
	t.rows[row][col] = value
	return prev, nil
}

// InsertRow inserts a row at index. Index may equal RowCount to append.
// The cells are copied, not aliased.
func (t *Table) InsertRow(index int, cells []string) error {
	if index < 0 || index > len(t.rows) {
		return fmt.Errorf("insert row at %d of %d: %w", index, len(t.rows), ErrRowOutOfRange)
	}
	if len(cells) != len(t.headers) {
		return fmt.Errorf("insert row with %d cells, want %d: %w",
			len(cells), len(t.headers), ErrColumnCountMismatch)
	}
	row := append([]string(nil), cells...)
	t.rows = append(t.rows, nil)
	copy(t.rows[index+1:], t.rows[index:])
	t.rows[index] = row
	return nil
}

// RemoveRow removes the row at index and returns its cells.
func (t *Table) RemoveRow(index int) ([]string, error) {
	if index < 0 || index >= len(t.rows) {
		return nil, fmt.Errorf("remove row %d of %d: %w", index, len(t.rows), ErrRowOutOfRange)
	}
	cells := t.rows[index]
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return cells, nil
}

// InsertColumn inserts a column at index with the given header and one
// cell per existing row. Index may equal ColumnCount to append. Headers
// and every row are updated in the same call.
func (t *Table) InsertColumn(index int, header string, cells []string) error {
	if index < 0 || index > len(t.headers) {
		return fmt.Errorf("insert column at %d of %d: %w", index, len(t.headers), ErrColumnOutOfRange)
	}
	if cells != nil && len(cells) != len(t.rows) {
		return fmt.Errorf("insert column with %d cells, want %d: %w",
			len(cells), len(t.rows), ErrColumnCountMismatch)
	}
	t.headers = append(t.headers, "")
	copy(t.headers[index+1:], t.headers[index:])
	t.headers[index] = header
	for i := range t.rows {
		value := ""
		if cells != nil {
			value = cells[i]
		}
		row := t.rows[i]
		row = append(row, "")
		copy(row[index+1:], row[index:])
		row[index] = value
		t.rows[i] = row
	}
	return nil
}

// RemoveColumn removes the column at index, returning its header and the
// removed cell of every row. Headers and every row are updated in the
// same call.
func (t *Table) RemoveColumn(index int) (string, []string, error) {
	if index < 0 || index >= len(t.headers) {
		return "", nil, fmt.Errorf("remove column %d of %d: %w", index, len(t.headers), ErrColumnOutOfRange)
	}
	header := t.headers[index]
	t.headers = append(t.headers[:index], t.headers[index+1:]...)
	cells := make([]string, len(t.rows))
	for i := range t.rows {
		cells[i] = t.rows[i][index]
		t.rows[i] = append(t.rows[i][:index], t.rows[i][index+1:]...)
	}
	return header, cells, nil
}

// MoveRow removes the row at from and reinserts it at to, where to is
// interpreted against the sequence after removal. Moving index 1 to
// index 3 in a 4-row table lands the row at the end.
func (t *Table) MoveRow(from, to int) error {
	if from < 0 || from >= len(t.rows) {
		return fmt.Errorf("move row from %d of %d: %w", from, len(t.rows), ErrRowOutOfRange)
	}
	if to < 0 || to >= len(t.rows) {
		return fmt.Errorf("move row to %d of %d: %w", to, len(t.rows), ErrRowOutOfRange)
	}
	if from == to {
		return nil
	}
	row := t.rows[from]
	rest := append(t.rows[:from], t.rows[from+1:]...)
	rest = append(rest, nil)
	copy(rest[to+1:], rest[to:])
	rest[to] = row
	t.rows = rest
	return nil
}

// MoveColumn removes the column at from and reinserts it at to, with the
// same post-removal index semantics as MoveRow. Headers and every row
// move together.
func (t *Table) MoveColumn(from, to int) error {
	if from < 0 || from >= len(t.headers) {
		return fmt.Errorf("move column from %d of %d: %w", from, len(t.headers), ErrColumnOutOfRange)
	}
	if to < 0 || to >= len(t.headers) {
		return fmt.Errorf("move column to %d of %d: %w", to, len(t.headers), ErrColumnOutOfRange)
	}
	if from == to {
		return nil
	}
	moveString := func(s []string) []string {
		v := s[from]
		s = append(s[:from], s[from+1:]...)
		s = append(s, "")
		copy(s[to+1:], s[to:])
		s[to] = v
		return s
	}
	t.headers = moveString(t.headers)
	for i := range t.rows {
		t.rows[i] = moveString(t.rows[i])
	}
	return nil
}

// ReorderRows rearranges rows so that the row at position i afterwards
// is the row that was at perm[i] before. perm must be a permutation of
// the current row indices.
func (t *Table) ReorderRows(perm []int) error {
	if len(perm) != len(t.rows) {
		return fmt.Errorf("permutation length %d, want %d: %w", len(perm), len(t.rows), ErrBadPermutation)
	}
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return fmt.Errorf("permutation entry %d: %w", p, ErrBadPermutation)
		}
		seen[p] = true
	}
	next := make([][]string, len(t.rows))
	for i, p := range perm {
		next[i] = t.rows[p]
	}
	t.rows = next
	return nil
}

// Clone returns a deep copy sharing no storage with the receiver.
func (t *Table) Clone() *Table {
	clone := &Table{
		headers: append([]string(nil), t.headers...),
		rows:    make([][]string, len(t.rows)),
	}
	for i, row := range t.rows {
		clone.rows[i] = append([]string(nil), row...)
	}
	return clone
}

// Equal reports whether two tables have identical headers and rows.
func (t *Table) Equal(o *Table) bool {
	if len(t.headers) != len(o.headers) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.headers {
		if t.headers[i] != o.headers[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != o.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// RowKey returns the identity line for a row: cell values joined with
// pipes, embedded pipes escaped. Two rows have equal keys exactly when
// their cell sequences are equal.
func (t *Table) RowKey(row int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("row key %d of %d: %w", row, len(t.rows), ErrRowOutOfRange)
	}
	return JoinKey(t.rows[row]), nil
}

// RowKeys returns the identity line for every row in order.
func (t *Table) RowKeys() []string {
	keys := make([]string, len(t.rows))
	for i, row := range t.rows {
		keys[i] = JoinKey(row)
	}
	return keys
}

// JoinKey serializes a cell sequence to a pipe-delimited identity line.
func JoinKey(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return strings.Join(escaped, "|")
}

// SplitKey parses a pipe-delimited identity line back into cells.
// It is the inverse of JoinKey.
func SplitKey(key string) []string {
	var cells []string
	var sb strings.Builder
	escaped := false
	for _, r := range key {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	cells = append(cells, sb.String())
	return cells
}
