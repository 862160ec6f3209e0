package grid

import (
	"strings"
)

// Markdown renders the current page of t as a markdown table followed by the
// pagination footer. The actions column is not rendered.
func Markdown(t *Table) string {
	var cols []Column
	for _, c := range t.VisibleColumns() {
		if c.ID != ColumnActions {
			cols = append(cols, c)
		}
	}

	var b strings.Builder
	if len(cols) == 0 {
		b.WriteString(NoResults)
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("|")
	for _, c := range cols {
		b.WriteString(" ")
		b.WriteString(headerLabel(t, c))
		b.WriteString(" |")
	}
	b.WriteString("\n|")
	for _, c := range cols {
		if c.ID == ColumnAsset || c.ID == ColumnSource {
			b.WriteString(" :--- |")
		} else {
			b.WriteString(" ---: |")
		}
	}
	b.WriteString("\n")

	rows := t.RowModel()
	if len(rows) == 0 {
		b.WriteString("| ")
		b.WriteString(NoResults)
		b.WriteString(strings.Repeat(" |", len(cols)))
		b.WriteString("\n")
	}
	for _, r := range rows {
		b.WriteString("|")
		for _, c := range cols {
			b.WriteString(" ")
			b.WriteString(escapeCell(r.Cell(c.ID)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.Summary())
	b.WriteString("\n")
	return b.String()
}

// headerLabel appends the sort marker of a column to its label.
func headerLabel(t *Table, c Column) string {
	switch t.Sorting.Direction(c.ID) {
	case SortAsc:
		return c.Label + " ▲"
	case SortDesc:
		return c.Label + " ▼"
	default:
		return c.Label
	}
}

// HeaderLabel is the label of column c with its sort marker.
func (t *Table) HeaderLabel(c Column) string {
	return headerLabel(t, c)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
