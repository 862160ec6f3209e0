package grid

// SortDirection of a sorted column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// ColumnSort one entry of the sorting state.
type ColumnSort struct {
	ID   string
	Desc bool
}

// SortingState ordered sort keys, most significant first.
type SortingState []ColumnSort

// Direction returns how column id is sorted.
func (s SortingState) Direction(id string) SortDirection {
	for _, cs := range s {
		if cs.ID == id {
			if cs.Desc {
				return SortDesc
			}
			return SortAsc
		}
	}
	return SortNone
}

func (s SortingState) index(id string) int {
	for i, cs := range s {
		if cs.ID == id {
			return i
		}
	}
	return -1
}

// ColumnFilters column id to filter value. Empty values are not stored.
type ColumnFilters map[string]string

// VisibilityState column id to visibility. Missing columns are visible.
type VisibilityState map[string]bool

// Visible reports whether column id is shown.
func (v VisibilityState) Visible(id string) bool {
	visible, ok := v[id]
	return !ok || visible
}

// RowSelection ids of the selected rows.
type RowSelection map[int]bool

// DefaultPageSize rows per page.
const DefaultPageSize = 10

// Pagination page index (zero based) and page size.
type Pagination struct {
	PageIndex int
	PageSize  int
}
