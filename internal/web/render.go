package web

import (
	"net/http"

	"github.com/a-h/templ"
)

//go:generate templ generate

// Render writes content inside the page layout. htmx requests only get the
// content so it can be swapped into the current page.
func Render(w http.ResponseWriter, r *http.Request, title string, content templ.Component, wrappers ...func(templ.Component) templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Header.Get("HX-Request") == "true" {
		return content.Render(r.Context(), w)
	}

	wrapped := content
	for _, wrap := range wrappers {
		wrapped = wrap(wrapped)
	}
	return Layout(title, wrapped).Render(r.Context(), w)
}
