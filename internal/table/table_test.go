package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name  string
	Email string
}

func columns() []Column[person] {
	return []Column[person]{
		{ID: "name", Header: "Name", Accessor: func(p person) string { return p.Name }, Sortable: true},
		{ID: "email", Header: "Email", Accessor: func(p person) string { return p.Email }, Sortable: true},
		{ID: "actions", Header: "", Accessor: func(person) string { return "" }},
	}
}

func people(n int) []person {
	out := make([]person, n)
	for i := range out {
		out[i] = person{Name: fmt.Sprintf("user %02d", i), Email: fmt.Sprintf("u%02d@example.com", i)}
	}
	return out
}

func names(rows []person) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestSorting(t *testing.T) {
	tb := New(columns(), []person{{Name: "bob"}, {Name: "Alice"}, {Name: "carol"}})

	assert.Equal(t, []string{"bob", "Alice", "carol"}, names(tb.Rows()))

	require.NoError(t, tb.ToggleSorting("name"))
	assert.Equal(t, []string{"Alice", "bob", "carol"}, names(tb.Rows()))

	require.NoError(t, tb.ToggleSorting("name"))
	assert.Equal(t, SortState{ColumnID: "name", Desc: true}, tb.Sorting())
	assert.Equal(t, []string{"carol", "bob", "Alice"}, names(tb.Rows()))

	require.NoError(t, tb.ToggleSorting("name"))
	assert.Equal(t, SortState{}, tb.Sorting())

	assert.ErrorIs(t, tb.SetSorting("actions", false), ErrUnknownColumn)
	assert.ErrorIs(t, tb.SetSorting("missing", false), ErrUnknownColumn)
}

func TestFilterIsCaseInsensitiveAndResetsPage(t *testing.T) {
	data := append(people(25), person{Name: "Zed Special"})
	tb := New(columns(), data)
	tb.NextPage()
	require.Equal(t, 1, tb.PageIndex())

	require.NoError(t, tb.SetFilter("name", "special"))
	assert.Equal(t, 0, tb.PageIndex())
	assert.Equal(t, []string{"Zed Special"}, names(tb.Rows()))
	assert.Equal(t, "special", tb.Filter("name"))

	require.NoError(t, tb.SetFilter("name", ""))
	assert.Equal(t, 26, tb.FilteredRowCount())

	assert.ErrorIs(t, tb.SetFilter("missing", "x"), ErrUnknownColumn)
}

func TestPagination(t *testing.T) {
	tb := New(columns(), people(23))

	assert.Equal(t, 3, tb.PageCount())
	assert.False(t, tb.CanPreviousPage())
	assert.True(t, tb.CanNextPage())
	assert.Len(t, tb.Rows(), DefaultPageSize)

	tb.NextPage()
	tb.NextPage()
	assert.Equal(t, 2, tb.PageIndex())
	assert.False(t, tb.CanNextPage())
	assert.Len(t, tb.Rows(), 3)

	tb.NextPage()
	assert.Equal(t, 2, tb.PageIndex())

	tb.PreviousPage()
	assert.Equal(t, 1, tb.PageIndex())

	tb.SetPageIndex(99)
	assert.Equal(t, 2, tb.PageIndex())
	tb.SetPageIndex(-1)
	assert.Equal(t, 0, tb.PageIndex())

	empty := New(columns(), nil)
	assert.Equal(t, 1, empty.PageCount())
	assert.Empty(t, empty.Rows())
	assert.False(t, empty.CanNextPage())
}

func TestSelectionAndManagePanel(t *testing.T) {
	data := people(3)
	tb := New(columns(), data)

	_, ok := tb.Selected()
	assert.False(t, ok)

	tb.OpenManage(data[1])
	assert.True(t, tb.IsManageOpen())
	sel, ok := tb.Selected()
	require.True(t, ok)
	assert.Equal(t, data[1], sel)

	tb.CancelManage()
	assert.False(t, tb.IsManageOpen())
	_, ok = tb.Selected()
	assert.False(t, ok)
}
