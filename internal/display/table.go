package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gutter = "  "
	marker = "▸ "
	colSep = "  "
)

// Table lays out rows of cells in aligned columns. Widths are measured in
// terminal cells, so styled cells and labels like "15:02/15:50" line up.
// The highlighted row (typically today) is marked in the gutter and drawn
// in the accent colour.
type Table struct {
	headers   []string
	rows      [][]string
	highlight int
	footer    string
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers, highlight: -1}
}

// AddRow appends a row of values. Missing trailing cells render blank.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow marks the 0-based row idx. -1 clears it.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// SetFooter sets a dimmed note printed after the rows.
func (t *Table) SetFooter(note string) {
	t.footer = note
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// Render produces the table, one line per row, each prefixed by the gutter.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}

	var sb strings.Builder
	sb.WriteString(gutter + Bold(formatRow(t.headers, widths)) + "\n")
	sb.WriteString(gutter + Dim(strings.Join(rule, colSep)) + "\n")
	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlight {
			sb.WriteString(Accent(marker+line) + "\n")
			continue
		}
		sb.WriteString(gutter + line + "\n")
	}
	if t.footer != "" {
		sb.WriteString(gutter + Dim(t.footer) + "\n")
	}
	return sb.String()
}

// formatRow pads each cell to its column width.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	}
	return strings.Join(parts, colSep)
}
