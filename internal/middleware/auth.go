package middleware

import (
	"net/http"

	"lms/internal/session"
)

// SessionResolver maps an inbound request to an authenticated session.
type SessionResolver interface {
	Resolve(r *http.Request) (session.Session, bool)
}

// SessionMiddleware resolves the session once per request and stores it in the
// request context. Requests without a valid token pass through anonymously;
// each handler decides how to answer them.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := resolver.Resolve(r); ok {
				r = r.WithContext(session.NewContext(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 401 without a session and 403 when the session role is
// not one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !s.HasRole(roles...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
