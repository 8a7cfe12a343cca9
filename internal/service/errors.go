package service

import (
	"encoding/json"
	"errors"
)

var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrChapterNotFound       = errors.New("chapter not found")
	ErrAttachmentNotFound    = errors.New("attachment not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrForbidden             = errors.New("not allowed to modify this resource")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrEmailTaken            = errors.New("a user with this email already exists")
	ErrInvalidRole           = errors.New("invalid role")
	ErrUnknownEndpoint       = errors.New("unknown upload endpoint")
	ErrNoFiles               = errors.New("no files provided")
	ErrTooManyFiles          = errors.New("too many files for this endpoint")
	ErrFileTypeNotAllowed    = errors.New("file type not allowed for this endpoint")
)

// AuthErrorKind distinguishes credential failures that callers must tell apart.
type AuthErrorKind string

const AuthErrorNoUser AuthErrorKind = "no_user"

// AuthError is returned by Authorize when the email is unknown.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// MarshalJSON renders the error as the sign-in failure body {message, ok:false}.
func (e *AuthError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string `json:"message"`
		OK      bool   `json:"ok"`
	}{Message: e.Message, OK: false})
}

// IsAuthErrorKind reports whether err is an *AuthError of the given kind.
func IsAuthErrorKind(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}
