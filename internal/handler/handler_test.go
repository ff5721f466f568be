package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/votemonitor/internal/config"
	"github.com/votemonitor/internal/middleware"
	"github.com/votemonitor/internal/model"
	"github.com/votemonitor/internal/service"
)

type fakeClaimer struct {
	mu     sync.Mutex
	creds  *model.Credentials
	err    error
	tokens []string
}

func (f *fakeClaimer) Claim(_ context.Context, token string) (*model.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return f.creds, f.err
}

type fakePool struct {
	stats    *model.PoolStats
	accounts []model.DemoAccount
	err      error
	limit    int
}

func (f *fakePool) Stats(context.Context) (*model.PoolStats, error) { return f.stats, f.err }

func (f *fakePool) ListClaimed(_ context.Context, limit int) ([]model.DemoAccount, error) {
	f.limit = limit
	return f.accounts, f.err
}

func withSession(h http.HandlerFunc) http.Handler {
	return middleware.SessionToken(middleware.SessionCookie{Name: "session_id", TTL: 7 * 24 * time.Hour})(h)
}

func requestWithToken(target, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(middleware.WithSessionToken(req.Context(), token))
}

func TestCredentialsPageFirstVisit(t *testing.T) {
	claims := &fakeClaimer{creds: &model.Credentials{Email: "demo1@x.com", Password: "p4ss"}}
	h := NewPageHandler(claims, config.Default())

	rec := httptest.NewRecorder()
	withSession(h.Credentials).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/credentials", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, []string{cookies[0].Value}, claims.tokens, "claim uses the freshly issued token")

	body := rec.Body.String()
	require.True(t, rec.Flushed)
	require.Contains(t, body, `value="demo1@x.com"`)
	require.Contains(t, body, `value="p4ss"`)
	require.Contains(t, body, "Copy email")
	require.Contains(t, body, "Copy password")
	require.Less(t, strings.Index(body, `id="loading"`), strings.Index(body, `data-state="success"`))
}

func TestCredentialsPageNullFields(t *testing.T) {
	claims := &fakeClaimer{creds: &model.Credentials{}}
	h := NewPageHandler(claims, config.Default())

	rec := httptest.NewRecorder()
	h.Credentials(rec, requestWithToken("/credentials", "T2"))

	body := rec.Body.String()
	require.Equal(t, []string{"T2"}, claims.tokens)
	require.Contains(t, body, `data-state="empty"`)
	require.Contains(t, body, `<a href="/">`)
	require.NotContains(t, body, `data-state="success"`)
}

func TestCredentialsPageBackendFailure(t *testing.T) {
	claims := &fakeClaimer{err: fmt.Errorf("%w: %w", service.ErrClaimFailed, errors.New("503"))}
	h := NewPageHandler(claims, config.Default())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.Credentials(rec, requestWithToken("/credentials", "T3")) })
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Looks like the universe decided to hide your credentials")
}

func TestCredentialsPageClientGone(t *testing.T) {
	claims := &fakeClaimer{err: context.Canceled}
	h := NewPageHandler(claims, config.Default())

	rec := httptest.NewRecorder()
	h.Credentials(rec, requestWithToken("/credentials", "T4"))
	require.NotContains(t, rec.Body.String(), "data-state")
}

func TestLandingPage(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPageHandler(&fakeClaimer{}, config.Default()).Landing(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Get your credentials")
	require.Contains(t, rec.Body.String(), "<strong>checklists and incident reports</strong>")
}

func TestCredentialsAPI(t *testing.T) {
	tests := []struct {
		name   string
		claims *fakeClaimer
		status int
		state  string
	}{
		{"success", &fakeClaimer{creds: &model.Credentials{Email: "demo1@x.com", Password: "p4ss"}}, http.StatusOK, "success"},
		{"empty", &fakeClaimer{err: service.ErrNoAccountAvailable}, http.StatusNotFound, "empty"},
		{"failed", &fakeClaimer{err: service.ErrClaimFailed}, http.StatusBadGateway, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewCredentialsHandler(tt.claims).GetCredentials(rec, requestWithToken("/api/credentials", "T1"))

			require.Equal(t, tt.status, rec.Code)
			var resp credentialsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.state, resp.State)
			if tt.state == "success" {
				require.Equal(t, "demo1@x.com", resp.Email)
				require.Equal(t, "p4ss", resp.Password)
			} else {
				require.Empty(t, resp.Password)
				require.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestGetConfig(t *testing.T) {
	rec := httptest.NewRecorder()
	NewConfigHandler(config.Default()).GetConfig(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	var resp publicConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 7, resp.SessionTTLDays)
	require.Equal(t, 24, resp.AccountTTLHours)
	require.NotEmpty(t, resp.Site.IOSURL)
}

func TestPoolStats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPoolHandler(&fakePool{stats: &model.PoolStats{Available: 3, Claimed: 1}}).
		GetStats(rec, httptest.NewRequest(http.MethodGet, "/internal/pool", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"available":3,"claimed":1,"disabled":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewPoolHandler(&fakePool{err: errors.New("db down")}).
		GetStats(rec, httptest.NewRequest(http.MethodGet, "/internal/pool", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPoolListMasksTokens(t *testing.T) {
	token := "3f2a9c1e-5b7d-4e8f-9a0b-1c2d3e4f5a6b"
	pool := &fakePool{accounts: []model.DemoAccount{{ID: "a", Email: "demo1@x.com", ClaimedBy: &token}}}
	rec := httptest.NewRecorder()
	NewPoolHandler(pool).ListClaimed(rec, httptest.NewRequest(http.MethodGet, "/internal/pool/claims?limit=5000", nil))

	require.Equal(t, 20, pool.limit)
	require.NotContains(t, rec.Body.String(), token)
	require.Contains(t, rec.Body.String(), `"token":"3f2a***"`)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, "ok", rec.Body.String())
}
