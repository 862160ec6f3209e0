// Package grid holds the table state the portfolio views share: column
// definitions, sorting, filtering, visibility, selection and pagination.
package grid

import (
	"strings"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// Column ids.
const (
	ColumnAsset   = "asset"
	ColumnAmount  = "amount"
	ColumnPrice   = "price"
	ColumnTotal   = "total"
	ColumnSource  = "source"
	ColumnActions = "actions"
)

// FilterColumn is the column the free-text filter applies to.
const FilterColumn = ColumnSource

// Column describes how a field of a display row is labelled, compared and rendered.
type Column struct {
	ID       string
	Label    string
	Sortable bool
	Hideable bool
	// Render returns the cell text.
	Render func(domain.DisplayRow) string
	// Compare orders two rows by this column; nil for unsortable columns.
	Compare func(a, b domain.DisplayRow) int
}

// Columns in display order.
var Columns = []Column{
	{
		ID: ColumnAsset, Label: "Asset", Sortable: true, Hideable: true,
		Render:  func(r domain.DisplayRow) string { return strings.ToUpper(r.Asset) },
		Compare: func(a, b domain.DisplayRow) int { return strings.Compare(strings.ToUpper(a.Asset), strings.ToUpper(b.Asset)) },
	},
	{
		ID: ColumnAmount, Label: "Amount", Sortable: true, Hideable: true,
		Render:  func(r domain.DisplayRow) string { return r.Amount.StringFixed(domain.DisplayPlaces) },
		Compare: func(a, b domain.DisplayRow) int { return a.Amount.Cmp(b.Amount) },
	},
	{
		ID: ColumnPrice, Label: "Price", Sortable: true, Hideable: true,
		Render:  func(r domain.DisplayRow) string { return r.Price.StringFixed(domain.DisplayPlaces) },
		Compare: func(a, b domain.DisplayRow) int { return a.Price.Cmp(b.Price) },
	},
	{
		ID: ColumnTotal, Label: "Total", Sortable: true, Hideable: true,
		Render:  func(r domain.DisplayRow) string { return r.Total.StringFixed(domain.DisplayPlaces) },
		Compare: func(a, b domain.DisplayRow) int { return a.Total.Cmp(b.Total) },
	},
	{
		ID: ColumnSource, Label: "Source", Sortable: true, Hideable: true,
		Render:  func(r domain.DisplayRow) string { return string(r.Source) },
		Compare: func(a, b domain.DisplayRow) int { return strings.Compare(string(a.Source), string(b.Source)) },
	},
	{
		ID: ColumnActions, Label: "",
		Render: func(domain.DisplayRow) string { return "..." },
	},
}

var columnIndex = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.ID] = c
	}
	return m
}()

// ColumnByID looks a column up by id.
func ColumnByID(id string) (Column, bool) {
	c, ok := columnIndex[id]
	return c, ok
}

// DataColumns returns the columns backed by a display row field.
func DataColumns() []Column {
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if c.ID != ColumnActions {
			out = append(out, c)
		}
	}
	return out
}
