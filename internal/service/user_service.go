package service

import (
	"context"
	"fmt"
	"slices"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/session"

	"github.com/rs/zerolog"
)

// NewUser holds the attributes needed to create an account.
type NewUser struct {
	Email    string
	Password string
	Name     string
	Image    *string
	Role     string
	AgentID  *string
}

// UserUpdate carries optional account changes. A non-nil Password is re-hashed.
type UserUpdate struct {
	Email    *string
	Password *string
	Name     *string
	Image    *string
	Role     *string
	AgentID  *string
}

// UserService defines the interface for account administration
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	// Only an ADMIN caller may grant ADMIN, change its own role or touch an
	// ADMIN account. DeleteUser also refuses the caller's own account.
	CreateUser(ctx context.Context, s session.Session, u NewUser) (*model.User, error)
	UpdateUser(ctx context.Context, s session.Session, userID string, u UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, s session.Session, userID string) error
}

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) CreateUser(ctx context.Context, sess session.Session, nu NewUser) (*model.User, error) {
	email := normalizeEmail(nu.Email)
	if email == "" || nu.Password == "" {
		return nil, ErrMissingRequiredFields
	}
	role := nu.Role
	if role == "" {
		role = model.RoleStudent
	}
	if !slices.Contains(model.Roles, role) {
		return nil, ErrInvalidRole
	}
	if role == model.RoleAdmin && !sess.HasRole(model.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	u := &model.User{
		Email:   email,
		Name:    nu.Name,
		Image:   nu.Image,
		Role:    role,
		AgentID: nu.AgentID,
	}
	if err := u.SetPassword(nu.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("User created")
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, sess session.Session, userID string, uu UserUpdate) (*model.User, error) {
	target, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := authorizeUserChange(sess, target); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if uu.Email != nil {
		email := normalizeEmail(*uu.Email)
		if err := s.ensureEmailFree(ctx, email, userID); err != nil {
			return nil, err
		}
		fields["email"] = email
	}
	if uu.Password != nil {
		if *uu.Password == "" {
			return nil, ErrMissingRequiredFields
		}
		var tmp model.User
		if err := tmp.SetPassword(*uu.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = tmp.Password
	}
	if uu.Name != nil {
		fields["name"] = *uu.Name
	}
	if uu.Image != nil {
		fields["image"] = *uu.Image
	}
	if uu.Role != nil {
		if !slices.Contains(model.Roles, *uu.Role) {
			return nil, ErrInvalidRole
		}
		if !sess.HasRole(model.RoleAdmin) && (*uu.Role == model.RoleAdmin || userID == sess.UserID) {
			return nil, ErrForbidden
		}
		fields["role"] = *uu.Role
	}
	if uu.AgentID != nil {
		fields["agent_id"] = *uu.AgentID
	}
	if len(fields) == 0 {
		return target, nil
	}

	u, err := s.repo.UpdateUserFields(ctx, userID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, sess session.Session, userID string) error {
	if sess.UserID == userID {
		return ErrForbidden
	}
	target, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := authorizeUserChange(sess, target); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}
	s.logger.Info().Str("user_id", userID).Str("deleted_by", sess.UserID).Msg("User deleted")
	return nil
}

// authorizeUserChange keeps non-admins away from ADMIN accounts.
func authorizeUserChange(sess session.Session, target *model.User) error {
	if target.IsAdmin() && !sess.HasRole(model.RoleAdmin) {
		return ErrForbidden
	}
	return nil
}

// ensureEmailFree fails with ErrEmailTaken when another account owns email.
func (s *userService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}
