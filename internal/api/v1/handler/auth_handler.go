package handler

import (
	"errors"
	"mime"
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/service"
	"lms/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SessionStore issues and persists session tokens.
type SessionStore interface {
	Issue(id session.Identity) (string, error)
	Save(w http.ResponseWriter, r *http.Request, token string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type AuthHandler struct {
	authService service.AuthService
	sessions    SessionStore
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, sessions SessionStore, v *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		validate:    v,
		logger:      logger.With().Str("handler", "AuthHandler").Logger(),
	}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/callback/credentials", h.signIn)
	r.Get("/api/auth/session", h.getSession)
	r.Post("/api/auth/signout", h.signOut)
}

// signIn godoc
// @Summary Sign in with email and password
// @Description Accepts JSON or form-encoded credentials and sets the session cookie.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param credentials body dto.CredentialsDTO true "Email and password"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 401 {object} service.AuthError "No user found"
// @Failure 401 {string} string "Invalid credentials"
// @Router /api/auth/callback/credentials [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsDTO
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if !decodeAndValidate(w, r, h.validate, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Password = r.PostForm.Get("password")
		if err := h.validate.Struct(&req); err != nil {
			http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	identity, err := h.authService.Authorize(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			writeJSON(w, http.StatusUnauthorized, authErr)
			return
		}
		writeServiceError(w, h.logger, "AUTH", err)
		return
	}
	if identity == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Issue(*identity)
	if err != nil {
		writeServiceError(w, h.logger, "AUTH", err)
		return
	}
	if err := h.sessions.Save(w, r, token); err != nil {
		writeServiceError(w, h.logger, "AUTH", err)
		return
	}
	h.logger.Info().Str("user_id", identity.ID).Msg("User signed in")
	writeJSON(w, http.StatusOK, dto.AuthResponseDTO{Token: token, User: *identity})
}

// getSession godoc
// @Summary Current session
// @Description Returns {id, role, agentId} for the signed-in user, or an empty object.
// @Tags auth
// @Produce json
// @Success 200 {object} session.Session
// @Router /api/auth/session [get]
func (h *AuthHandler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// signOut godoc
// @Summary Sign out
// @Tags auth
// @Success 204 "No Content"
// @Router /api/auth/signout [post]
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(w, r); err != nil {
		writeServiceError(w, h.logger, "AUTH", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
