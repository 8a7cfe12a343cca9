package handler

import (
	"errors"
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/model"
	"lms/internal/service"
	"lms/internal/session"
	"lms/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PageHandler serves the server-rendered course setup and user pages.
type PageHandler struct {
	courseService   service.CourseService
	categoryService service.CategoryService
	userService     service.UserService
	validate        *validator.Validate
	logger          zerolog.Logger
}

func NewPageHandler(
	courseService service.CourseService,
	categoryService service.CategoryService,
	userService service.UserService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *PageHandler {
	return &PageHandler{
		courseService:   courseService,
		categoryService: categoryService,
		userService:     userService,
		validate:        validate,
		logger:          logger.With().Str("handler", "PageHandler").Logger(),
	}
}

func (h *PageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/courses/{courseId}", h.courseSetup)
	r.Get(web.UsersPath, h.users)
	r.Post(web.UsersPath, h.createUser)
	r.Post(web.UsersPath+"/{userId}", h.updateUser)
	r.Post(web.UsersPath+"/{userId}/delete", h.deleteUser)
}

// pageSession redirects to "/" unless a session with one of roles is present.
// With no roles any session is accepted.
func pageSession(w http.ResponseWriter, r *http.Request, roles ...string) (session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || (len(roles) > 0 && !s.HasRole(roles...)) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return session.Session{}, false
	}
	return s, true
}

func (h *PageHandler) courseSetup(w http.ResponseWriter, r *http.Request) {
	s, ok := pageSession(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(r.Context(), s, chi.URLParam(r, "courseId"))
	if errors.Is(err, service.ErrCourseNotFound) || errors.Is(err, service.ErrForbidden) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_PAGE", err)
		return
	}
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "COURSE_PAGE", err)
		return
	}
	page := web.CourseSetupPage(web.CoursePageView{Course: course, Categories: categories})
	if err := web.Render(w, r, course.Title, page); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render course page")
	}
}

func (h *PageHandler) users(w http.ResponseWriter, r *http.Request) {
	if _, ok := pageSession(w, r, model.RoleAdmin, model.RoleTeacher); !ok {
		return
	}
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "USERS_PAGE", err)
		return
	}
	q := web.ParseUsersQuery(r.URL.Query())
	page := web.UsersPage(web.UsersPageView{Table: web.UsersTable(users, q), Query: q})
	if err := web.Render(w, r, "Users", page); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render users page")
	}
}

func (h *PageHandler) createUser(w http.ResponseWriter, r *http.Request) {
	s, ok := pageSession(w, r, model.RoleAdmin, model.RoleTeacher)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	req := dto.UserCreateDTO{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Name:     r.PostForm.Get("name"),
		Role:     r.PostForm.Get("role"),
		AgentID:  optionalForm(r, "agentId"),
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	_, err := h.userService.CreateUser(r.Context(), s, service.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		AgentID:  req.AgentID,
	})
	if err != nil {
		writeServiceError(w, h.logger, "USERS_PAGE", err)
		return
	}
	http.Redirect(w, r, web.UsersPath, http.StatusSeeOther)
}

func (h *PageHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := pageSession(w, r, model.RoleAdmin, model.RoleTeacher)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	// Empty inputs leave the stored value unchanged.
	req := dto.UserUpdateDTO{
		Email:    optionalForm(r, "email"),
		Password: optionalForm(r, "password"),
		Name:     optionalForm(r, "name"),
		Role:     optionalForm(r, "role"),
		AgentID:  optionalForm(r, "agentId"),
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	_, err := h.userService.UpdateUser(r.Context(), s, chi.URLParam(r, "userId"), service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
		AgentID:  req.AgentID,
	})
	if err != nil {
		writeServiceError(w, h.logger, "USERS_PAGE", err)
		return
	}
	http.Redirect(w, r, web.UsersPath, http.StatusSeeOther)
}

func (h *PageHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	s, ok := pageSession(w, r, model.RoleAdmin, model.RoleTeacher)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(r.Context(), s, chi.URLParam(r, "userId")); err != nil {
		writeServiceError(w, h.logger, "USERS_PAGE", err)
		return
	}
	http.Redirect(w, r, web.UsersPath, http.StatusSeeOther)
}

// optionalForm returns nil for an absent or empty form field.
func optionalForm(r *http.Request, key string) *string {
	v := r.PostForm.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
