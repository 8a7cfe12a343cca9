package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lms/internal/service"
	"lms/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	msgUnauthorized  = "Unauthorized"
	msgInternalError = "Internal Error"
	msgMissingFields = "Missing required fields"
	msgNotFound      = "Not found"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireSession answers 401 when the request carries no session.
func requireSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok || s.UserID == "" {
		http.Error(w, msgUnauthorized, http.StatusUnauthorized)
		return session.Session{}, false
	}
	return s, true
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeServiceError maps service errors to responses. Unexpected errors are
// logged under tag and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, tag string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, msgUnauthorized, http.StatusUnauthorized)
	case errors.Is(err, service.ErrMissingRequiredFields), errors.Is(err, service.ErrCourseIncomplete):
		http.Error(w, msgMissingFields, http.StatusBadRequest)
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrChapterNotFound),
		errors.Is(err, service.ErrAttachmentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		http.Error(w, msgNotFound, http.StatusNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrUnknownEndpoint),
		errors.Is(err, service.ErrNoFiles),
		errors.Is(err, service.ErrTooManyFiles),
		errors.Is(err, service.ErrFileTypeNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error().Err(err).Str("tag", tag).Msg("request failed")
		http.Error(w, msgInternalError, http.StatusInternalServerError)
	}
}
