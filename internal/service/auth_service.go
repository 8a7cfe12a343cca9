package service

import (
	"context"
	"fmt"
	"strings"

	"lms/internal/repository"
	"lms/internal/session"

	"github.com/rs/zerolog"
)

// AuthService exchanges credentials for an identity.
type AuthService interface {
	// Authorize returns an *AuthError of kind AuthErrorNoUser for an unknown
	// email, and (nil, nil) when the password does not match.
	Authorize(ctx context.Context, email, password string) (*session.Identity, error)
}

type authService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

func NewAuthService(users repository.UserRepository, logger zerolog.Logger) AuthService {
	return &authService{
		users:  users,
		logger: logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Authorize(ctx context.Context, email, password string) (*session.Identity, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, &AuthError{Kind: AuthErrorNoUser, Message: "No user found"}
	}
	if err := user.CheckPassword(password); err != nil {
		s.logger.Debug().Str("user_id", user.ID).Msg("password mismatch")
		return nil, nil
	}
	return &session.Identity{
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Name:    user.Name,
		Image:   user.Image,
		AgentID: user.AgentID,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
