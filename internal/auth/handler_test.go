package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newLoginRouter(t *testing.T) (http.Handler, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	seedUser(t, repo, "9876543210", "correct-horse", 7)
	svc := NewService(repo, &stubPerms{features: []string{"DASHBOARD"}}, &stubPlans{active: true}, NewTokenManager("test-secret", 8*time.Hour))
	h := NewHandler(slog.Default(), svc, "easybiz_token", false)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, repo
}

func postLogin(router http.Handler, body, userAgent string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginMobileClientGetsTokenInBody(t *testing.T) {
	router, _ := newLoginRouter(t)

	rec := postLogin(router, `{"identifier":"9876543210","secret":"correct-horse"}`, "okhttp/4.12.0")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID           int64    `json:"id"`
			Name         string   `json:"name"`
			Role         string   `json:"role"`
			IsPlanActive bool     `json:"isPlanActive"`
			Permissions  []string `json:"permissions"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Asha Rao", resp.User.Name)
	require.True(t, resp.User.IsPlanActive)
	require.Equal(t, []string{"DASHBOARD"}, resp.User.Permissions)
	require.Empty(t, rec.Result().Cookies())
}

func TestLoginWebClientGetsCookie(t *testing.T) {
	router, _ := newLoginRouter(t)

	rec := postLogin(router, `{"identifier":"9876543210","secret":"correct-horse"}`,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0")
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "easybiz_token", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	// The token must not also appear in the body for browser clients.
	require.NotContains(t, rec.Body.String(), `"token"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _ := newLoginRouter(t)

	rec := postLogin(router, `{"identifier":"9876543210","secret":"wrong"}`, "okhttp/4.12.0")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"message":"Invalid identifier or password."}`, rec.Body.String())
}

func TestLoginUnknownIdentifierSameResponse(t *testing.T) {
	router, _ := newLoginRouter(t)

	unknown := postLogin(router, `{"identifier":"0000000000","secret":"correct-horse"}`, "okhttp/4.12.0")
	wrong := postLogin(router, `{"identifier":"9876543210","secret":"wrong"}`, "okhttp/4.12.0")

	require.Equal(t, unknown.Code, wrong.Code)
	require.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := newLoginRouter(t)

	rec := postLogin(router, `{"identifier":"9876543210"}`, "okhttp/4.12.0")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginMalformedBody(t *testing.T) {
	router, _ := newLoginRouter(t)

	rec := postLogin(router, `{not json`, "okhttp/4.12.0")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, &stubPerms{}, &stubPlans{active: true}, NewTokenManager("s", time.Hour))
	h := NewHandler(slog.Default(), svc, "easybiz_token", false)
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(
		`{"first_name":"Dev","mobile_num":"9000000001","password":"s3cret-pass","role":"cashier","client_id":7}`))
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"9000000001"`)

	_, err := repo.FindByMobile(req.Context(), "9000000001")
	require.NoError(t, err)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, &stubPerms{}, &stubPlans{active: true}, NewTokenManager("s", time.Hour))
	h := NewHandler(slog.Default(), svc, "easybiz_token", false)
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(
		`{"first_name":"Dev","mobile_num":"9000000001","password":"short","role":"cashier"}`))
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
