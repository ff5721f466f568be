package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testCookie = SessionCookie{Name: "session_id", TTL: 7 * 24 * time.Hour}

func serveWithToken(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	h := SessionToken(testCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionToken(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestSessionTokenGeneratedWhenMissing(t *testing.T) {
	rec, token := serveWithToken(t, httptest.NewRequest(http.MethodGet, "/credentials", nil))

	_, err := uuid.Parse(token)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, "session_id", c.Name)
	require.Equal(t, token, c.Value)
	require.Equal(t, 7*24*3600, c.MaxAge)
	require.True(t, c.HttpOnly)
	require.Equal(t, "/", c.Path)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestSessionTokenReusedOnNextVisit(t *testing.T) {
	rec, first := serveWithToken(t, httptest.NewRequest(http.MethodGet, "/credentials", nil))
	issued := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/credentials", nil)
	req.AddCookie(&http.Cookie{Name: issued.Name, Value: issued.Value})
	rec, second := serveWithToken(t, req)

	require.Equal(t, first, second)
	require.Empty(t, rec.Result().Cookies(), "a valid token is never rewritten")
}

func TestSessionTokenReplacesGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/credentials", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "not-a-uuid"})
	rec, token := serveWithToken(t, req)

	require.NotEqual(t, "not-a-uuid", token)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestGetSessionTokenOutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, GetSessionToken(req.Context()))
}
