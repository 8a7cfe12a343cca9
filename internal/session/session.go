// Package session resolves the authenticated identity of a request.
//
// A signed token carries {id, role, agentId}; it is read from the
// Authorization header or the session cookie and exposed to handlers as a
// Session value stored in the request context.
package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lms/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
)

const tokenKey = "token"

// Identity is what a successful credentials sign-in yields.
type Identity struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	Name    string  `json:"name"`
	Image   *string `json:"image"`
	AgentID *string `json:"agentId"`
}

// Session is the request-scoped view of the signed-in user.
type Session struct {
	UserID  string `json:"id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"`
	AgentID string `json:"agentId,omitempty"`
}

func (s Session) HasRole(roles ...string) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

type contextKey string

const sessionContextKey = contextKey("session")

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext returns the session attached by the session middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}

// ClaimsFromIdentity copies id, role and agentId onto the token claims.
func ClaimsFromIdentity(id Identity) *util.Claims {
	c := &util.Claims{
		Email:            id.Email,
		Name:             id.Name,
		Role:             id.Role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.ID},
	}
	if id.AgentID != nil {
		c.AgentID = *id.AgentID
	}
	return c
}

// FromClaims copies id, role and agentId from the token onto the session.
func FromClaims(c *util.Claims) Session {
	return Session{
		UserID:  c.Subject,
		Email:   c.Email,
		Name:    c.Name,
		Role:    c.Role,
		AgentID: c.AgentID,
	}
}

// Manager issues session tokens and resolves them from requests.
type Manager struct {
	secret     string
	ttl        time.Duration
	cookieName string
	store      *sessions.CookieStore
}

func NewManager(secret string, ttl time.Duration, cookieName string, secureCookie bool) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{secret: secret, ttl: ttl, cookieName: cookieName, store: store}
}

// Issue signs a token for the identity.
func (m *Manager) Issue(id Identity) (string, error) {
	return util.SignJWT(ClaimsFromIdentity(id), m.secret, m.ttl)
}

// Resolve reads a bearer token first, then the session cookie.
func (m *Manager) Resolve(r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		sess, err := m.store.Get(r, m.cookieName)
		if err != nil {
			return Session{}, false
		}
		token, _ = sess.Values[tokenKey].(string)
	}
	if token == "" {
		return Session{}, false
	}
	claims, err := util.ValidateJWT(token, m.secret)
	if err != nil {
		return Session{}, false
	}
	return FromClaims(claims), true
}

// Save stores the token in the session cookie.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, err := m.store.Get(r, m.cookieName)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, m.cookieName)
	if err != nil && sess == nil {
		return err
	}
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
