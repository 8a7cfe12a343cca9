package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/internal/session"

	"github.com/stretchr/testify/assert"
)

type staticResolver struct {
	s  session.Session
	ok bool
}

func (r staticResolver) Resolve(*http.Request) (session.Session, bool) { return r.s, r.ok }

func TestSessionMiddlewareAttachesSession(t *testing.T) {
	var got session.Session
	var found bool
	h := SessionMiddleware(staticResolver{s: session.Session{UserID: "u1", Role: "ADMIN"}, ok: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, found = session.FromContext(r.Context())
		}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, found)
	assert.Equal(t, "u1", got.UserID)
}

func TestSessionMiddlewareAnonymous(t *testing.T) {
	called := false
	h := SessionMiddleware(staticResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := session.FromContext(r.Context())
		assert.False(t, ok)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	tests := []struct {
		name     string
		sess     *session.Session
		wantCode int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &session.Session{UserID: "u", Role: "STUDENT"}, http.StatusForbidden},
		{"allowed", &session.Session{UserID: "u", Role: "TEACHER"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.sess != nil {
				req = req.WithContext(session.NewContext(req.Context(), *tt.sess))
			}
			rec := httptest.NewRecorder()
			RequireRole("ADMIN", "TEACHER")(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
