package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/tablo-edit/tablo/internal/diff"
)

// Styles for the four change kinds. Colors degrade to plain text when
// the terminal does not support them.
var (
	headerStyle      = lipgloss.NewStyle().Bold(true)
	addedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deletedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Strikethrough(true)
	modifiedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	placeholderStyle = lipgloss.NewStyle().Faint(true)
)

// GridOptions configures grid rendering.
type GridOptions struct {
	// Placeholder is the glyph shown in cells that have no value at a
	// given column, such as a deleted row under an added column.
	Placeholder string

	// MinColumnWidth is the minimum rendered column width.
	MinColumnWidth int
}

// RenderGrid renders the grid as a Markdown-like table with one marker
// column: + for added rows, - for deleted, ~ for modified, space for
// kept. Added and deleted columns carry the same markers on their
// headers.
func RenderGrid(grid *diff.Grid, opts GridOptions) string {
	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = "░"
	}
	minWidth := opts.MinColumnWidth
	if minWidth < 3 {
		minWidth = 3
	}

	headers := make([]string, len(grid.Columns))
	for i, col := range grid.Columns {
		headers[i] = columnMarker(col.Kind) + col.Header
	}

	cells := make([][]string, len(grid.Rows))
	for r, row := range grid.Rows {
		cells[r] = rowCells(row, grid.Columns, placeholder)
	}

	widths := make([]int, len(grid.Columns))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}
	for _, row := range cells {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder

	sb.WriteString("  |")
	for i, h := range headers {
		style := headerStyle
		switch grid.Columns[i].Kind {
		case diff.ColumnAdded:
			style = addedStyle.Bold(true)
		case diff.ColumnDeleted:
			style = deletedStyle.Bold(true)
		}
		sb.WriteString(" " + style.Render(pad(h, widths[i])) + " |")
	}
	sb.WriteString("\n")

	sb.WriteString("  |")
	for i := range headers {
		sb.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	sb.WriteString("\n")

	for r, row := range grid.Rows {
		sb.WriteString(rowMarker(row.Kind) + " |")
		for i, c := range cells[r] {
			sb.WriteString(" " + cellStyle(row.Kind, c == placeholder).Render(pad(c, widths[i])) + " |")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// rowCells lays a grid row out over the column timeline. Deleted rows
// already carry one cell per timeline column; kept, added, and modified
// rows carry current table cells, which land at the non-deleted columns.
func rowCells(row diff.GridRow, columns []diff.GridColumn, placeholder string) []string {
	out := make([]string, len(columns))
	if row.Kind == diff.RowDeleted {
		for i := range columns {
			if i < len(row.Cells) && row.Cells[i].Kind == diff.CellData {
				out[i] = row.Cells[i].Value
			} else {
				out[i] = placeholder
			}
		}
		return out
	}

	next := 0
	for i, col := range columns {
		if col.Kind == diff.ColumnDeleted {
			out[i] = placeholder
			continue
		}
		if next < len(row.Cells) && row.Cells[next].Kind == diff.CellData {
			out[i] = row.Cells[next].Value
		} else {
			out[i] = placeholder
		}
		next++
	}
	return out
}

func rowMarker(kind diff.RowKind) string {
	switch kind {
	case diff.RowAdded:
		return "+"
	case diff.RowDeleted:
		return "-"
	case diff.RowModified:
		return "~"
	}
	return " "
}

func columnMarker(kind diff.ColumnKind) string {
	switch kind {
	case diff.ColumnAdded:
		return "+"
	case diff.ColumnDeleted:
		return "-"
	}
	return ""
}

func cellStyle(kind diff.RowKind, isPlaceholder bool) lipgloss.Style {
	if isPlaceholder {
		return placeholderStyle
	}
	switch kind {
	case diff.RowAdded:
		return addedStyle
	case diff.RowDeleted:
		return deletedStyle
	case diff.RowModified:
		return modifiedStyle
	}
	return lipgloss.NewStyle()
}

func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
