package handler

import (
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/middleware"
	"lms/internal/model"
	"lms/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    v,
		logger:      logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts user administration routes, restricted to admins and teachers
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleTeacher))
		r.Get("/api/user", h.listUsers)
		r.Post("/api/user", h.createUser)
		r.Patch("/api/user/{userId}", h.updateUser)
		r.Delete("/api/user/{userId}", h.deleteUser)
	})
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Router /api/user [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "USERS", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// createUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateDTO true "New account"
// @Success 201 {object} model.User
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Failure 409 {string} string "Email already in use"
// @Router /api/user [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.UserCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	u, err := h.userService.CreateUser(r.Context(), s, service.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Image:    req.Image,
		Role:     req.Role,
		AgentID:  req.AgentID,
	})
	if err != nil {
		writeServiceError(w, h.logger, "USERS", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param user body dto.UserUpdateDTO true "Fields to update"
// @Success 200 {object} model.User
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/user/{userId} [patch]
func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dto.UserUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	u, err := h.userService.UpdateUser(r.Context(), s, chi.URLParam(r, "userId"), service.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Image:    req.Image,
		Role:     req.Role,
		AgentID:  req.AgentID,
	})
	if err != nil {
		writeServiceError(w, h.logger, "USER_ID", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// deleteUser godoc
// @Summary Delete a user
// @Tags users
// @Param userId path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Router /api/user/{userId} [delete]
func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(r.Context(), s, chi.URLParam(r, "userId")); err != nil {
		writeServiceError(w, h.logger, "USER_ID_DELETE", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
