package handler

import (
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/repository"
	"lms/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ChapterHandler handles chapter endpoints nested under a course
type ChapterHandler struct {
	chapterService service.ChapterService
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewChapterHandler(chapterService service.ChapterService, validate *validator.Validate, logger zerolog.Logger) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		validate:       validate,
		logger:         logger.With().Str("handler", "ChapterHandler").Logger(),
	}
}

// RegisterRoutes mounts chapter routes
func (h *ChapterHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/courses/{courseId}/chapters", h.createChapter)
	r.Put("/api/courses/{courseId}/chapters/reorder", h.reorderChapters)
	r.Get("/api/courses/{courseId}/chapters/{chapterId}", h.getChapter)
	r.Patch("/api/courses/{courseId}/chapters/{chapterId}", h.updateChapter)
	r.Delete("/api/courses/{courseId}/chapters/{chapterId}", h.deleteChapter)
	r.Patch("/api/courses/{courseId}/chapters/{chapterId}/publish", h.publishChapter)
	r.Patch("/api/courses/{courseId}/chapters/{chapterId}/unpublish", h.unpublishChapter)
}

// createChapter godoc
// @Summary Add a chapter
// @Description Appends a chapter at the end of the course.
// @Tags chapters
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapter body dto.ChapterCreateDTO true "Chapter title"
// @Success 201 {object} model.Chapter
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal Error"
// @Router /api/courses/{courseId}/chapters [post]
func (h *ChapterHandler) createChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.ChapterCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	ch, err := h.chapterService.CreateChapter(r.Context(), s, chi.URLParam(r, "courseId"), req.Title)
	if err != nil {
		writeServiceError(w, h.logger, "CHAPTERS", err)
		return
	}
	writeJSON(w, http.StatusCreated, ch)
}

// reorderChapters godoc
// @Summary Reorder chapters
// @Tags chapters
// @Accept json
// @Param courseId path string true "Course ID"
// @Param list body dto.ChapterReorderDTO true "New positions"
// @Success 200 {string} string "Success"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId}/chapters/reorder [put]
func (h *ChapterHandler) reorderChapters(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.ChapterReorderDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	list := make([]repository.ChapterPosition, len(req.List))
	for i, p := range req.List {
		list[i] = repository.ChapterPosition{ID: p.ID, Position: p.Position}
	}
	if err := h.chapterService.ReorderChapters(r.Context(), s, chi.URLParam(r, "courseId"), list); err != nil {
		writeServiceError(w, h.logger, "REORDER", err)
		return
	}
	w.Write([]byte("Success"))
}

func (h *ChapterHandler) getChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	ch, err := h.chapterService.GetChapter(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "chapterId"))
	if err != nil {
		writeServiceError(w, h.logger, "CHAPTER_ID", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// updateChapter godoc
// @Summary Update a chapter field
// @Tags chapters
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Param chapter body dto.ChapterUpdateDTO true "Fields to update"
// @Success 200 {object} model.Chapter
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal Error"
// @Router /api/courses/{courseId}/chapters/{chapterId} [patch]
func (h *ChapterHandler) updateChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.ChapterUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	ch, err := h.chapterService.UpdateChapter(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "chapterId"), service.ChapterUpdate{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		IsFree:      req.IsFree,
	})
	if err != nil {
		writeServiceError(w, h.logger, "COURSES_CHAPTER_ID", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// deleteChapter godoc
// @Summary Delete a chapter
// @Tags chapters
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 204 "No Content"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId}/chapters/{chapterId} [delete]
func (h *ChapterHandler) deleteChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.chapterService.DeleteChapter(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "chapterId")); err != nil {
		writeServiceError(w, h.logger, "CHAPTER_ID_DELETE", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// publishChapter godoc
// @Summary Publish a chapter
// @Description Publishes a chapter that has a title, description and video.
// @Tags chapters
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 200 {object} model.Chapter
// @Failure 400 {string} string "Missing required fields"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal Error"
// @Router /api/courses/{courseId}/chapters/{chapterId}/publish [patch]
func (h *ChapterHandler) publishChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	ch, err := h.chapterService.PublishChapter(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "chapterId"))
	if err != nil {
		writeServiceError(w, h.logger, "CHAPTER_PUBLISH", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// unpublishChapter godoc
// @Summary Unpublish a chapter
// @Description Unpublishes a chapter and the course when no published chapter remains.
// @Tags chapters
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 200 {object} model.Chapter
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId}/chapters/{chapterId}/unpublish [patch]
func (h *ChapterHandler) unpublishChapter(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	ch, err := h.chapterService.UnpublishChapter(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "chapterId"))
	if err != nil {
		writeServiceError(w, h.logger, "CHAPTER_UNPUBLISH", err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}
