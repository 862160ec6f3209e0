package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// NoResults placeholder shown when the row model is empty.
const NoResults = "No results."

// Row a display row together with its id, the row's index in the data set.
type Row struct {
	ID   int
	Data domain.DisplayRow
}

// Cell returns the rendered value of column id.
func (r Row) Cell(id string) string {
	c, ok := ColumnByID(id)
	if !ok || c.Render == nil {
		return ""
	}
	return c.Render(r.Data)
}

// Table applies sorting, filtering, visibility, selection and pagination to a row set.
// The zero value is not usable; create tables with New.
type Table struct {
	rows []domain.DisplayRow

	Sorting    SortingState
	Filters    ColumnFilters
	Visibility VisibilityState
	Selection  RowSelection
	Pagination Pagination
}

// New creates a table over rows with default state.
func New(rows []domain.DisplayRow) *Table {
	return &Table{
		rows:       rows,
		Filters:    ColumnFilters{},
		Visibility: VisibilityState{},
		Selection:  RowSelection{},
		Pagination: Pagination{PageSize: DefaultPageSize},
	}
}

// SetRows replaces the data and keeps the current state. Selections that no
// longer exist are dropped and the page index is clamped.
func (t *Table) SetRows(rows []domain.DisplayRow) {
	t.rows = rows
	for id := range t.Selection {
		if id >= len(rows) {
			delete(t.Selection, id)
		}
	}
	t.clampPage()
}

// Len returns the number of rows before filtering.
func (t *Table) Len() int {
	return len(t.rows)
}

// ToggleSorting cycles column id through ascending, descending and unsorted.
// Without multi every other sort key is dropped.
func (t *Table) ToggleSorting(id string, multi bool) {
	c, ok := ColumnByID(id)
	if !ok || !c.Sortable {
		return
	}

	next := SortAsc
	switch t.Sorting.Direction(id) {
	case SortAsc:
		next = SortDesc
	case SortDesc:
		next = SortNone
	}
	t.setSort(id, next, multi)
}

// HeaderClick sorts column id descending when it is currently ascending and
// ascending otherwise, replacing other sort keys.
func (t *Table) HeaderClick(id string) {
	c, ok := ColumnByID(id)
	if !ok || !c.Sortable {
		return
	}
	next := SortAsc
	if t.Sorting.Direction(id) == SortAsc {
		next = SortDesc
	}
	t.setSort(id, next, false)
}

// SetSorting replaces the sorting state, skipping unknown or unsortable columns.
func (t *Table) SetSorting(state SortingState) {
	out := make(SortingState, 0, len(state))
	for _, cs := range state {
		c, ok := ColumnByID(cs.ID)
		if !ok || !c.Sortable || out.index(cs.ID) >= 0 {
			continue
		}
		out = append(out, cs)
	}
	t.Sorting = out
	t.Pagination.PageIndex = 0
}

func (t *Table) setSort(id string, dir SortDirection, multi bool) {
	if !multi {
		t.Sorting = nil
		if dir != SortNone {
			t.Sorting = SortingState{{ID: id, Desc: dir == SortDesc}}
		}
		t.Pagination.PageIndex = 0
		return
	}

	i := t.Sorting.index(id)
	switch {
	case dir == SortNone && i >= 0:
		t.Sorting = append(t.Sorting[:i:i], t.Sorting[i+1:]...)
	case i >= 0:
		t.Sorting[i].Desc = dir == SortDesc
	case dir != SortNone:
		t.Sorting = append(t.Sorting, ColumnSort{ID: id, Desc: dir == SortDesc})
	}
	t.Pagination.PageIndex = 0
}

// SetFilter sets the filter value of column id; an empty value clears it.
func (t *Table) SetFilter(id, value string) {
	if _, ok := ColumnByID(id); !ok {
		return
	}
	if strings.TrimSpace(value) == "" {
		delete(t.Filters, id)
	} else {
		t.Filters[id] = value
	}
	t.Pagination.PageIndex = 0
}

// Filter returns the filter value of column id.
func (t *Table) Filter(id string) string {
	return t.Filters[id]
}

// SetVisibility shows or hides column id. Columns that cannot be hidden stay visible.
func (t *Table) SetVisibility(id string, visible bool) {
	c, ok := ColumnByID(id)
	if !ok || !c.Hideable {
		return
	}
	t.Visibility[id] = visible
}

// ToggleVisibility flips the visibility of column id.
func (t *Table) ToggleVisibility(id string) {
	t.SetVisibility(id, !t.Visibility.Visible(id))
}

// IsVisible reports whether column id is shown.
func (t *Table) IsVisible(id string) bool {
	return t.Visibility.Visible(id)
}

// VisibleColumns returns shown columns in display order.
func (t *Table) VisibleColumns() []Column {
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if t.Visibility.Visible(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// HideableColumns returns the columns a user may hide.
func (t *Table) HideableColumns() []Column {
	out := make([]Column, 0, len(Columns))
	for _, c := range Columns {
		if c.Hideable {
			out = append(out, c)
		}
	}
	return out
}

// Select makes id the only selected row. Unknown ids clear the selection.
func (t *Table) Select(id int) {
	t.Selection = RowSelection{}
	if id >= 0 && id < len(t.rows) {
		t.Selection[id] = true
	}
}

// ToggleSelected selects id, or clears the selection when id is already selected.
func (t *Table) ToggleSelected(id int) {
	if t.Selection[id] {
		t.Selection = RowSelection{}
		return
	}
	t.Select(id)
}

// Selected returns the selected row.
func (t *Table) Selected() (Row, bool) {
	for id, ok := range t.Selection {
		if ok && id >= 0 && id < len(t.rows) {
			return Row{ID: id, Data: t.rows[id]}, true
		}
	}
	return Row{}, false
}

// IsSelected reports whether row id is selected.
func (t *Table) IsSelected(id int) bool {
	return t.Selection[id]
}

// FilteredRows returns the rows matching every column filter, in data order.
// Matching is a case-insensitive substring test on the rendered cell.
func (t *Table) FilteredRows() []Row {
	out := make([]Row, 0, len(t.rows))
	for id, r := range t.rows {
		row := Row{ID: id, Data: r}
		if t.matches(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *Table) matches(row Row) bool {
	for id, value := range t.Filters {
		needle := strings.ToLower(strings.TrimSpace(value))
		if needle == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(row.Cell(id)), needle) {
			return false
		}
	}
	return true
}

// SortedRows returns the filtered rows ordered by the sorting state.
func (t *Table) SortedRows() []Row {
	rows := t.FilteredRows()
	if len(t.Sorting) == 0 {
		return rows
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, cs := range t.Sorting {
			c, ok := ColumnByID(cs.ID)
			if !ok || c.Compare == nil {
				continue
			}
			cmp := c.Compare(rows[i].Data, rows[j].Data)
			if cmp == 0 {
				continue
			}
			if cs.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

// RowModel returns the current page of filtered, sorted rows.
func (t *Table) RowModel() []Row {
	rows := t.SortedRows()
	size := t.pageSize()
	start := t.Pagination.PageIndex * size
	if start >= len(rows) {
		return []Row{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// FilteredCount returns the number of rows matching the filters.
func (t *Table) FilteredCount() int {
	return len(t.FilteredRows())
}

// Summary returns the footer line counting the filtered rows.
func (t *Table) Summary() string {
	return fmt.Sprintf("%d asset(s) in total.", t.FilteredCount())
}

// PageCount returns the number of pages of filtered rows.
func (t *Table) PageCount() int {
	size := t.pageSize()
	return (t.FilteredCount() + size - 1) / size
}

// CanPreviousPage reports whether a previous page exists.
func (t *Table) CanPreviousPage() bool {
	return t.Pagination.PageIndex > 0
}

// CanNextPage reports whether a next page exists.
func (t *Table) CanNextPage() bool {
	return t.Pagination.PageIndex+1 < t.PageCount()
}

// PreviousPage moves one page back when possible.
func (t *Table) PreviousPage() {
	if t.CanPreviousPage() {
		t.Pagination.PageIndex--
	}
}

// NextPage moves one page forward when possible.
func (t *Table) NextPage() {
	if t.CanNextPage() {
		t.Pagination.PageIndex++
	}
}

// SetPageIndex jumps to page index, clamped to the available pages.
func (t *Table) SetPageIndex(index int) {
	t.Pagination.PageIndex = index
	t.clampPage()
}

// SetPageSize changes the page size and returns to the first page.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	t.Pagination.PageSize = size
	t.Pagination.PageIndex = 0
}

func (t *Table) pageSize() int {
	if t.Pagination.PageSize <= 0 {
		return DefaultPageSize
	}
	return t.Pagination.PageSize
}

func (t *Table) clampPage() {
	last := t.PageCount() - 1
	if t.Pagination.PageIndex > last {
		t.Pagination.PageIndex = last
	}
	if t.Pagination.PageIndex < 0 {
		t.Pagination.PageIndex = 0
	}
}
