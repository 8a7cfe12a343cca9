package service

import (
	"net/http"

	"lms/internal/repository"
	"lms/internal/session"

	"github.com/rs/zerolog"
)

// TokenResolver reads a session from the request credentials alone.
type TokenResolver interface {
	Resolve(r *http.Request) (session.Session, bool)
}

// SessionResolver checks every token against the stored account. Deleted
// accounts resolve to no session; role, email, name and agentId come from
// the stored row rather than the token.
type SessionResolver struct {
	tokens TokenResolver
	users  repository.UserRepository
	logger zerolog.Logger
}

func NewSessionResolver(tokens TokenResolver, users repository.UserRepository, logger zerolog.Logger) *SessionResolver {
	return &SessionResolver{
		tokens: tokens,
		users:  users,
		logger: logger.With().Str("service", "SessionResolver").Logger(),
	}
}

func (s *SessionResolver) Resolve(r *http.Request) (session.Session, bool) {
	sess, ok := s.tokens.Resolve(r)
	if !ok {
		return session.Session{}, false
	}
	u, err := s.users.GetUserByID(r.Context(), sess.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Failed to load session user")
		return session.Session{}, false
	}
	if u == nil {
		return session.Session{}, false
	}
	sess.Email = u.Email
	sess.Name = u.Name
	sess.Role = u.Role
	sess.AgentID = ""
	if u.AgentID != nil {
		sess.AgentID = *u.AgentID
	}
	return sess, true
}
