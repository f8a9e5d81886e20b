package history

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tablo-edit/tablo/internal/table"
)

// SortDirection selects the ordering of a SortCommand.
type SortDirection int

const (
	// SortNone leaves the row order untouched.
	SortNone SortDirection = iota
	// SortAscending orders rows by the sort column, smallest first.
	SortAscending
	// SortDescending orders rows by the sort column, largest first.
	SortDescending
)

// ParseSortDirection maps the wire strings asc, desc, and none.
func ParseSortDirection(s string) (SortDirection, error) {
	switch s {
	case "asc":
		return SortAscending, nil
	case "desc":
		return SortDescending, nil
	case "none", "":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", s)
}

// String returns the wire form of the direction.
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortCommand reorders rows by one column. The applied permutation is
// recorded at execute time so undo restores the exact prior order, also
// for rows that compared equal.
type SortCommand struct {
	Column    int
	Direction SortDirection

	perm []int
}

// NewSortCommand creates a sort over the given column.
func NewSortCommand(column int, direction SortDirection) *SortCommand {
	return &SortCommand{Column: column, Direction: direction}
}

// Execute computes a stable ordering of the rows by the sort column and
// applies it. Values that both parse as numbers compare numerically,
// otherwise as strings. SortNone executes as an identity.
func (c *SortCommand) Execute(tbl *table.Table) error {
	if c.Column < 0 || c.Column >= tbl.ColumnCount() {
		return fmt.Errorf("sort column %d of %d: %w", c.Column, tbl.ColumnCount(), table.ErrColumnOutOfRange)
	}
	n := tbl.RowCount()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	if c.Direction != SortNone {
		values := make([]string, n)
		for i := 0; i < n; i++ {
			v, err := tbl.Cell(i, c.Column)
			if err != nil {
				return fmt.Errorf("sort: %w", err)
			}
			values[i] = v
		}
		sort.SliceStable(perm, func(a, b int) bool {
			cmp := compareCells(values[perm[a]], values[perm[b]])
			if c.Direction == SortDescending {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if err := tbl.ReorderRows(perm); err != nil {
		return fmt.Errorf("sort: %w", err)
	}
	c.perm = perm
	return nil
}

// Undo applies the inverse permutation, restoring the prior row order.
func (c *SortCommand) Undo(tbl *table.Table) error {
	inv := make([]int, len(c.perm))
	for i, p := range c.perm {
		inv[p] = i
	}
	if err := tbl.ReorderRows(inv); err != nil {
		return fmt.Errorf("undo sort: %w", err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *SortCommand) Description() string {
	return fmt.Sprintf("Sort by column %d (%s)", c.Column, c.Direction)
}

// compareCells orders two cell values: numerically when both parse as
// numbers, by string comparison otherwise.
func compareCells(a, b string) int {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
