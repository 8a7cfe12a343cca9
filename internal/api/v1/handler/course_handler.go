package handler

import (
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService     service.CourseService
	attachmentService service.AttachmentService
	validate          *validator.Validate
	logger            zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	attachmentService service.AttachmentService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		attachmentService: attachmentService,
		validate:          validate,
		logger:            logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course and attachment routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/courses", h.createCourse)
	r.Get("/api/courses", h.listCourses)
	r.Get("/api/courses/{courseId}", h.getCourse)
	r.Patch("/api/courses/{courseId}", h.updateCourse)
	r.Delete("/api/courses/{courseId}", h.deleteCourse)
	r.Patch("/api/courses/{courseId}/publish", h.publishCourse)
	r.Patch("/api/courses/{courseId}/unpublish", h.unpublishCourse)
	r.Post("/api/courses/{courseId}/attachments", h.createAttachment)
	r.Delete("/api/courses/{courseId}/attachments/{attachmentId}", h.deleteAttachment)
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a new course owned by the signed-in user.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} model.Course
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal Error"
// @Router /api/courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	course, err := h.courseService.CreateCourse(r.Context(), s, req.Title)
	if err != nil {
		writeServiceError(w, h.logger, "COURSES", err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// listCourses godoc
// @Summary List my courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Failure 401 {string} string "Unauthorized"
// @Router /api/courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	courses, err := h.courseService.ListCourses(r.Context(), s)
	if err != nil {
		writeServiceError(w, h.logger, "COURSES", err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// getCourse godoc
// @Summary Get a course
// @Description Retrieves a course with its chapters and attachments.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), s, chi.URLParam(r, "courseId"))
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_ID", err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// updateCourse godoc
// @Summary Update a course field
// @Description Patches one or more course fields and returns the updated course.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Fields to update"
// @Success 200 {object} model.Course
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal Error"
// @Router /api/courses/{courseId} [patch]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.CourseUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	course, err := h.courseService.UpdateCourse(r.Context(), s, chi.URLParam(r, "courseId"), service.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
	})
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_ID", err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// deleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Param courseId path string true "Course ID"
// @Success 204 "No Content"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), s, chi.URLParam(r, "courseId")); err != nil {
		writeServiceError(w, h.logger, "COURSE_ID_DELETE", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// publishCourse godoc
// @Summary Publish a course
// @Description Publishes a course once title, description, image, category and a published chapter are set.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 400 {string} string "Missing required fields"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId}/publish [patch]
func (h *CourseHandler) publishCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.PublishCourse(r.Context(), s, chi.URLParam(r, "courseId"))
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_ID_PUBLISH", err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// unpublishCourse godoc
// @Summary Unpublish a course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 401 {string} string "Unauthorized"
// @Router /api/courses/{courseId}/unpublish [patch]
func (h *CourseHandler) unpublishCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.UnpublishCourse(r.Context(), s, chi.URLParam(r, "courseId"))
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_ID_UNPUBLISH", err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// createAttachment godoc
// @Summary Attach a file to a course
// @Tags attachments
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param attachment body dto.AttachmentCreateDTO true "Uploaded file"
// @Success 201 {object} model.Attachment
// @Failure 401 {string} string "Unauthorized"
// @Router /api/courses/{courseId}/attachments [post]
func (h *CourseHandler) createAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.AttachmentCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	a, err := h.attachmentService.CreateAttachment(r.Context(), s, chi.URLParam(r, "courseId"), req.URL, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_ID_ATTACHMENTS", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// deleteAttachment godoc
// @Summary Remove an attachment
// @Tags attachments
// @Param courseId path string true "Course ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 204 "No Content"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/courses/{courseId}/attachments/{attachmentId} [delete]
func (h *CourseHandler) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	err := h.attachmentService.DeleteAttachment(r.Context(), s, chi.URLParam(r, "courseId"), chi.URLParam(r, "attachmentId"))
	if err != nil {
		writeServiceError(w, h.logger, "ATTACHMENT_ID", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
