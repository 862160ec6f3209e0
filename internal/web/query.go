package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/smilewilson1999/Eggregator/internal/grid"
)

// Query is the table state requested through /rows.
type Query struct {
	Sorting  grid.SortingState
	Filter   string
	Hidden   []string
	Page     int
	PageSize int
}

// ParseQuery reads sort=total:desc,asset&filter=binance&hide=price&page=0&size=10.
func ParseQuery(v url.Values) (Query, error) {
	var q Query

	for _, part := range splitList(v.Get("sort")) {
		id, dir, _ := strings.Cut(part, ":")
		c, ok := grid.ColumnByID(id)
		if !ok || !c.Sortable {
			return Query{}, errors.Errorf("cannot sort by %q", id)
		}
		switch strings.ToLower(dir) {
		case "", "asc":
			q.Sorting = append(q.Sorting, grid.ColumnSort{ID: id})
		case "desc":
			q.Sorting = append(q.Sorting, grid.ColumnSort{ID: id, Desc: true})
		default:
			return Query{}, errors.Errorf("unknown sort direction %q", dir)
		}
	}

	q.Filter = v.Get("filter")

	for _, id := range splitList(v.Get("hide")) {
		c, ok := grid.ColumnByID(id)
		if !ok || !c.Hideable {
			return Query{}, errors.Errorf("cannot hide %q", id)
		}
		q.Hidden = append(q.Hidden, id)
	}

	var err error
	if q.Page, err = intParam(v, "page"); err != nil {
		return Query{}, err
	}
	if q.PageSize, err = intParam(v, "size"); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Apply writes q into t. A zero page size keeps the table's default.
func (q Query) Apply(t *grid.Table) {
	t.SetSorting(q.Sorting)
	t.SetFilter(grid.FilterColumn, q.Filter)
	for _, id := range q.Hidden {
		t.SetVisibility(id, false)
	}
	if q.PageSize > 0 {
		t.SetPageSize(q.PageSize)
	}
	t.SetPageIndex(q.Page)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intParam(v url.Values, name string) (int, error) {
	raw := v.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}
