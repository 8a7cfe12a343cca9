package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agent(s string) *string { return &s }

func TestIssueAndResolveBearer(t *testing.T) {
	m := NewManager("secret", time.Hour, "lms_session", false)
	token, err := m.Issue(Identity{ID: "u1", Email: "a@b.c", Role: "ADMIN", AgentID: agent("ag1")})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	s, ok := m.Resolve(req)
	require.True(t, ok)
	assert.Equal(t, Session{UserID: "u1", Email: "a@b.c", Role: "ADMIN", AgentID: "ag1"}, s)
}

func TestResolveFromCookie(t *testing.T) {
	m := NewManager("secret", time.Hour, "lms_session", false)
	token, err := m.Issue(Identity{ID: "u2", Role: "TEACHER"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), token))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	s, ok := m.Resolve(req)
	require.True(t, ok)
	assert.Equal(t, "u2", s.UserID)
	assert.Equal(t, "TEACHER", s.Role)
}

func TestResolveRejects(t *testing.T) {
	m := NewManager("secret", time.Hour, "lms_session", false)
	other := NewManager("other", time.Hour, "lms_session", false)
	foreign, err := other.Issue(Identity{ID: "u3"})
	require.NoError(t, err)

	for name, header := range map[string]string{
		"no header":     "",
		"wrong scheme":  "Basic abc",
		"wrong secret":  "Bearer " + foreign,
		"garbage token": "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			_, ok := m.Resolve(req)
			assert.False(t, ok)
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), Session{UserID: "u1", Role: "ADMIN"})
	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.True(t, s.HasRole("TEACHER", "ADMIN"))
	assert.False(t, s.HasRole("STUDENT"))
}
