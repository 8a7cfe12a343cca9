// Package table holds the state of a sortable, filterable, paginated grid.
//
// A Table never fetches data: rows are owned by the caller and passed in
// through New or SetData. Sorting, per-column text filters, pagination,
// row selection and the manage-panel flag are local state derived on demand.
package table

import (
	"errors"
	"slices"
	"strings"
)

const DefaultPageSize = 10

var ErrUnknownColumn = errors.New("table: unknown column")

// Column describes one grid column.
type Column[T any] struct {
	ID     string
	Header string
	// Accessor returns the cell text used for display, sorting and filtering.
	Accessor func(T) string
	Sortable bool
}

// SortState is a single-column sort. An empty ColumnID means unsorted.
type SortState struct {
	ColumnID string
	Desc     bool
}

type Table[T any] struct {
	columns   []Column[T]
	data      []T
	sorting   SortState
	filters   map[string]string
	pageIndex int
	pageSize  int

	selected    T
	hasSelected bool
	manageOpen  bool
}

func New[T any](columns []Column[T], data []T) *Table[T] {
	return &Table[T]{
		columns:  columns,
		data:     data,
		filters:  map[string]string{},
		pageSize: DefaultPageSize,
	}
}

func (t *Table[T]) Columns() []Column[T] { return t.columns }

// SetData replaces the rows and returns to the first page.
func (t *Table[T]) SetData(data []T) {
	t.data = data
	t.pageIndex = 0
}

func (t *Table[T]) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	t.pageSize = n
	t.pageIndex = 0
}

func (t *Table[T]) PageSize() int { return t.pageSize }

func (t *Table[T]) column(id string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) Sorting() SortState { return t.sorting }

// SetSorting sorts by one column. Only sortable columns are accepted.
func (t *Table[T]) SetSorting(columnID string, desc bool) error {
	c, ok := t.column(columnID)
	if !ok || !c.Sortable {
		return ErrUnknownColumn
	}
	t.sorting = SortState{ColumnID: columnID, Desc: desc}
	return nil
}

// ToggleSorting cycles a column through ascending, descending and unsorted.
func (t *Table[T]) ToggleSorting(columnID string) error {
	switch {
	case t.sorting.ColumnID != columnID:
		return t.SetSorting(columnID, false)
	case !t.sorting.Desc:
		return t.SetSorting(columnID, true)
	default:
		t.ClearSorting()
		return nil
	}
}

func (t *Table[T]) ClearSorting() { t.sorting = SortState{} }

// SetFilter sets a case-insensitive "contains" filter on a column. An empty
// value removes the filter. The page index resets to the first page.
func (t *Table[T]) SetFilter(columnID, value string) error {
	if _, ok := t.column(columnID); !ok {
		return ErrUnknownColumn
	}
	if value == "" {
		delete(t.filters, columnID)
	} else {
		t.filters[columnID] = value
	}
	t.pageIndex = 0
	return nil
}

func (t *Table[T]) Filter(columnID string) string { return t.filters[columnID] }

// filteredSorted returns the rows that pass every filter, in sort order.
func (t *Table[T]) filteredSorted() []T {
	rows := make([]T, 0, len(t.data))
	for _, row := range t.data {
		if t.matches(row) {
			rows = append(rows, row)
		}
	}
	if c, ok := t.column(t.sorting.ColumnID); ok {
		desc := t.sorting.Desc
		slices.SortStableFunc(rows, func(a, b T) int {
			cmp := strings.Compare(strings.ToLower(c.Accessor(a)), strings.ToLower(c.Accessor(b)))
			if desc {
				return -cmp
			}
			return cmp
		})
	}
	return rows
}

func (t *Table[T]) matches(row T) bool {
	for id, value := range t.filters {
		c, ok := t.column(id)
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(c.Accessor(row)), strings.ToLower(value)) {
			return false
		}
	}
	return true
}

// FilteredRowCount is the number of rows across all pages after filtering.
func (t *Table[T]) FilteredRowCount() int {
	return len(t.filteredSorted())
}

// Rows returns the visible rows of the current page.
func (t *Table[T]) Rows() []T {
	rows := t.filteredSorted()
	start := t.pageIndex * t.pageSize
	if start >= len(rows) {
		return nil
	}
	end := min(start+t.pageSize, len(rows))
	return rows[start:end]
}

// PageCount is at least one, even for an empty table.
func (t *Table[T]) PageCount() int {
	n := t.FilteredRowCount()
	if n == 0 {
		return 1
	}
	return (n + t.pageSize - 1) / t.pageSize
}

func (t *Table[T]) PageIndex() int { return t.pageIndex }

// SetPageIndex moves to a page, clamped to the valid range.
func (t *Table[T]) SetPageIndex(i int) {
	t.pageIndex = max(0, min(i, t.PageCount()-1))
}

func (t *Table[T]) CanPreviousPage() bool { return t.pageIndex > 0 }

func (t *Table[T]) CanNextPage() bool { return t.pageIndex < t.PageCount()-1 }

func (t *Table[T]) NextPage() {
	if t.CanNextPage() {
		t.pageIndex++
	}
}

func (t *Table[T]) PreviousPage() {
	if t.CanPreviousPage() {
		t.pageIndex--
	}
}

func (t *Table[T]) Select(row T) {
	t.selected = row
	t.hasSelected = true
}

func (t *Table[T]) Selected() (T, bool) { return t.selected, t.hasSelected }

func (t *Table[T]) ClearSelection() {
	var zero T
	t.selected = zero
	t.hasSelected = false
}

// OpenManage selects row and opens the management panel for it.
func (t *Table[T]) OpenManage(row T) {
	t.Select(row)
	t.manageOpen = true
}

// CancelManage closes the management panel and drops the selection.
func (t *Table[T]) CancelManage() {
	t.manageOpen = false
	t.ClearSelection()
}

func (t *Table[T]) IsManageOpen() bool { return t.manageOpen }
