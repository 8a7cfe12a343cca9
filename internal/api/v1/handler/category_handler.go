package handler

import (
	"net/http"

	"lms/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	logger          zerolog.Logger
}

func NewCategoryHandler(categoryService service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, logger: logger}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.listCategories)
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} model.Category
// @Router /api/categories [get]
func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "CATEGORIES", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
