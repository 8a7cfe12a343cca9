package web

import (
	"net/url"
	"strconv"

	"lms/internal/model"
	"lms/internal/table"
)

// UsersQuery is the users table state carried in the page URL.
type UsersQuery struct {
	Sort   string
	Desc   bool
	Name   string
	Page   int // 1-based
	Edit   string
	Delete string
	New    bool
}

func ParseUsersQuery(q url.Values) UsersQuery {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return UsersQuery{
		Sort:   q.Get("sort"),
		Desc:   q.Get("desc") == "1" || q.Get("desc") == "true",
		Name:   q.Get("name"),
		Page:   page,
		Edit:   q.Get("edit"),
		Delete: q.Get("delete"),
		New:    q.Get("new") == "1",
	}
}

// Encode returns the query string for q, without panel state.
func (q UsersQuery) Encode() string {
	v := url.Values{}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		if q.Desc {
			v.Set("desc", "1")
		}
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v.Encode()
}

func (q UsersQuery) href(extra ...string) string {
	v, _ := url.ParseQuery(q.Encode())
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	if len(v) == 0 {
		return UsersPath
	}
	return UsersPath + "?" + v.Encode()
}

const UsersPath = "/teacher/users"

// UserColumns are the columns of the users table.
func UserColumns() []table.Column[model.User] {
	return []table.Column[model.User]{
		{ID: "name", Header: "Name", Accessor: func(u model.User) string { return u.Name }, Sortable: true},
		{ID: "email", Header: "Email", Accessor: func(u model.User) string { return u.Email }, Sortable: true},
		{ID: "role", Header: "Role", Accessor: func(u model.User) string { return u.Role }, Sortable: true},
	}
}

// UsersTable builds the table state described by q over users.
func UsersTable(users []model.User, q UsersQuery) *table.Table[model.User] {
	t := table.New(UserColumns(), users)
	if q.Sort != "" {
		// Unknown columns leave the table unsorted.
		_ = t.SetSorting(q.Sort, q.Desc)
	}
	_ = t.SetFilter("name", q.Name)
	t.SetPageIndex(q.Page - 1)

	for _, u := range users {
		switch u.ID {
		case q.Edit:
			t.OpenManage(u)
		case q.Delete:
			t.Select(u)
		}
	}
	return t
}

type UsersPageView struct {
	Table *table.Table[model.User]
	Query UsersQuery
}

func (q UsersQuery) sortHref(columnID string) string {
	q.Desc = q.Sort == columnID && !q.Desc
	q.Sort, q.Page = columnID, 1
	return q.href()
}

func (q UsersQuery) pageHref(page int) string {
	q.Page = page
	return q.href()
}

type usersPanel int

const (
	panelNone usersPanel = iota
	panelCreate
	panelEdit
	panelDelete
)

// panel is the management panel shown above the table.
func (v UsersPageView) panel() usersPanel {
	if v.Query.New {
		return panelCreate
	}
	if _, ok := v.Table.Selected(); !ok {
		return panelNone
	}
	if v.Table.IsManageOpen() {
		return panelEdit
	}
	return panelDelete
}

func (v UsersPageView) selected() model.User {
	u, _ := v.Table.Selected()
	return u
}

func (v UsersPageView) isSelected(u model.User) bool {
	sel, ok := v.Table.Selected()
	return ok && sel.ID == u.ID
}

func userFormAction(u model.User, editing bool) string {
	if editing {
		return UsersPath + "/" + u.ID
	}
	return UsersPath
}
