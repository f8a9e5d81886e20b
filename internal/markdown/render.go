package markdown

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tablo-edit/tablo/internal/table"
)

// DefaultMinColumnWidth keeps delimiter cells at least three dashes
// wide, the narrowest form GFM recognizes.
const DefaultMinColumnWidth = 3

// RenderOptions configures table serialization.
type RenderOptions struct {
	// MinColumnWidth is the minimum display width of a column.
	// Values below DefaultMinColumnWidth are raised to it.
	MinColumnWidth int
}

// Render serializes a table to Markdown with display-width-aligned
// columns. alignments may be nil or shorter than the column count;
// missing entries fall back to AlignDefault.
func Render(tbl *table.Table, alignments []Alignment, opts RenderOptions) string {
	minWidth := opts.MinColumnWidth
	if minWidth < DefaultMinColumnWidth {
		minWidth = DefaultMinColumnWidth
	}

	headers := tbl.Headers()
	rows := tbl.Rows()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(escapeCell(h))
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(escapeCell(c)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	align := func(col int) Alignment {
		if col < len(alignments) {
			return alignments[col]
		}
		return AlignDefault
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i, c := range cells {
			sb.WriteString(" ")
			sb.WriteString(padCell(escapeCell(c), widths[i], align(i)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(headers)

	sb.WriteString("|")
	for i := range headers {
		sb.WriteString(" ")
		sb.WriteString(delimiterCell(widths[i], align(i)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatDocument re-renders every table in the document in place,
// leaving surrounding text untouched.
func FormatDocument(src string, opts RenderOptions) string {
	tables := ParseDocument(src)
	if len(tables) == 0 {
		return src
	}
	lines := strings.Split(src, "\n")
	var out []string
	next := 0
	for _, pt := range tables {
		out = append(out, lines[next:pt.StartLine]...)
		rendered := Render(pt.Table, pt.Alignments, opts)
		out = append(out, strings.Split(rendered, "\n")...)
		next = pt.EndLine
	}
	out = append(out, lines[next:]...)
	return strings.Join(out, "\n")
}

// escapeCell protects pipes so cell content cannot break the row.
// Backslashes are escaped first, so content like `a\|` cannot collide
// with the pipe escape when re-parsed.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "|", `\|`)
}

// padCell pads a cell to the column's display width per its alignment.
func padCell(s string, width int, a Alignment) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// delimiterCell renders one cell of the separator row.
func delimiterCell(width int, a Alignment) string {
	switch a {
	case AlignLeft:
		return ":" + strings.Repeat("-", width-1)
	case AlignRight:
		return strings.Repeat("-", width-1) + ":"
	case AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}
