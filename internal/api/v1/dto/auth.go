package dto

import "lms/internal/session"

// CredentialsDTO is the sign-in form, accepted as JSON or form-encoded.
type CredentialsDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseDTO struct {
	Token string           `json:"token"`
	User  session.Identity `json:"user"`
}
