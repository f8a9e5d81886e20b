package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tablo-edit/tablo/internal/table"
)

// Errors returned by parsing.
var (
	// ErrNoTable indicates the document contains no Markdown table.
	ErrNoTable = errors.New("no markdown table found")
)

// Alignment is a column's alignment marker from the delimiter row.
type Alignment int

const (
	// AlignDefault is a plain --- delimiter.
	AlignDefault Alignment = iota
	// AlignLeft is :---.
	AlignLeft
	// AlignCenter is :--:.
	AlignCenter
	// AlignRight is ---:.
	AlignRight
)

// ParsedTable is one table found in a document, with its line region so
// callers can splice a re-rendered table back in. StartLine is
// inclusive, EndLine exclusive, both zero-based.
type ParsedTable struct {
	Table      *table.Table
	Alignments []Alignment
	StartLine  int
	EndLine    int
}

// ParseDocument finds and parses every Markdown table in the document,
// in order of appearance.
func ParseDocument(src string) []*ParsedTable {
	lines := strings.Split(src, "\n")
	var tables []*ParsedTable

	for i := 0; i+1 < len(lines); i++ {
		if !isRowLine(lines[i]) || !isDelimiterRow(lines[i+1]) {
			continue
		}
		headers := splitRow(lines[i])
		alignments := parseAlignments(lines[i+1])
		if len(alignments) != len(headers) {
			continue
		}

		end := i + 2
		var rows [][]string
		for end < len(lines) && isRowLine(lines[end]) {
			rows = append(rows, fitRow(splitRow(lines[end]), len(headers)))
			end++
		}

		tbl, err := table.New(headers, rows)
		if err != nil {
			// fitRow guarantees rectangular rows; unreachable.
			continue
		}
		tables = append(tables, &ParsedTable{
			Table:      tbl,
			Alignments: alignments,
			StartLine:  i,
			EndLine:    end,
		})
		i = end - 1
	}
	return tables
}

// ParseFirst parses the first table in the document.
func ParseFirst(src string) (*ParsedTable, error) {
	tables := ParseDocument(src)
	if len(tables) == 0 {
		return nil, ErrNoTable
	}
	return tables[0], nil
}

// isRowLine reports whether a line looks like a table row.
func isRowLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && len(trimmed) > 1
}

// isDelimiterRow reports whether a line is a header/body separator such
// as | --- | :--: |.
func isDelimiterRow(line string) bool {
	if !isRowLine(line) {
		return false
	}
	cells := splitRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, ":")
		c = strings.TrimSuffix(c, ":")
		if len(c) == 0 || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

// parseAlignments reads the alignment markers of a delimiter row.
func parseAlignments(line string) []Alignment {
	cells := splitRow(line)
	alignments := make([]Alignment, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			alignments[i] = AlignCenter
		case left:
			alignments[i] = AlignLeft
		case right:
			alignments[i] = AlignRight
		}
	}
	return alignments
}

// splitRow splits a table line into trimmed, unescaped cell values.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var sb strings.Builder
	escaped := false
	for _, r := range trimmed {
		switch {
		case escaped:
			// \| and \\ unescape; a backslash before anything else is
			// plain content, tolerating hand-written tables.
			if r != '|' && r != '\\' {
				sb.WriteRune('\\')
			}
			sb.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(sb.String()))
			sb.Reset()
		default:
			sb.WriteRune(r)
		}
	}
	if escaped {
		sb.WriteRune('\\')
	}
	cells = append(cells, strings.TrimSpace(sb.String()))
	return cells
}

// fitRow pads or truncates cells to the header width.
func fitRow(cells []string, width int) []string {
	if len(cells) > width {
		return cells[:width]
	}
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}

// Region returns a short description of the table's location, for
// diagnostics.
func (p *ParsedTable) Region() string {
	return fmt.Sprintf("lines %d-%d", p.StartLine+1, p.EndLine)
}
