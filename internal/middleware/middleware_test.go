package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	sessions map[string]*models.Session
	errs     map[string]error
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.Session, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errors.New("unknown token")
}

var (
	adminSession     = &models.Session{UserID: uuid.New(), Role: models.RoleAdmin}
	associateSession = &models.Session{UserID: uuid.New(), Role: models.RoleAssociate}
	newbieSession    = &models.Session{UserID: uuid.New(), Role: models.RoleAssociate, RequiresPasswordChange: true}
)

func testAuth() fakeAuth {
	return fakeAuth{
		sessions: map[string]*models.Session{
			"admin":  adminSession,
			"assoc":  associateSession,
			"newbie": newbieSession,
		},
		errs: map[string]error{
			"expired": jwt.ErrTokenExpired,
			"revoked": utils.ErrTokenRevoked,
		},
	}
}

// echoSession writes the role of the session it was handed.
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = w.Write([]byte(s.Role))
})

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(testAuth())(echoSession)

	cases := []struct {
		name   string
		header string
		query  string
		status int
		code   string
	}{
		{name: "missing", status: http.StatusUnauthorized, code: utils.ErrCodeUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: utils.ErrCodeUnauthorized},
		{name: "expired", header: "Bearer expired", status: http.StatusUnauthorized, code: utils.ErrCodeTokenExpired},
		{name: "revoked", header: "Bearer revoked", status: http.StatusUnauthorized, code: utils.ErrCodeUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized, code: utils.ErrCodeUnauthorized},
		{name: "header", header: "Bearer admin", status: http.StatusOK},
		{name: "query param", query: "?" + AccessTokenQueryParam + "=assoc", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				require.Equal(t, tc.code, errorCode(t, rec))
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	h := OptionalAuthMiddleware(testAuth())(echoSession)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "a token that is present must be valid")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer assoc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "associate", rec.Body.String())
}

func TestAdminOnlyMiddleware(t *testing.T) {
	h := AdminOnlyMiddleware(echoSession)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithSession(req.Context(), associateSession)))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, utils.ErrCodeForbidden, errorCode(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithSession(req.Context(), adminSession)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordChangeMiddleware(t *testing.T) {
	h := PasswordChangeMiddleware("/api/v1/auth/set-new-password")(echoSession)

	serve := func(path string, s *models.Session) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(WithSession(req.Context(), s)))
		return rec
	}

	rec := serve("/api/v1/leads", newbieSession)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, utils.ErrCodePasswordChangeRequired, errorCode(t, rec))

	require.Equal(t, http.StatusOK, serve("/api/v1/auth/set-new-password", newbieSession).Code)
	require.Equal(t, http.StatusOK, serve("/api/v1/leads", associateSession).Code)
	require.Equal(t, http.StatusOK, serve("/api/v1/leads", adminSession).Code)
}

func TestRateLimit(t *testing.T) {
	mw, err := RateLimit("2-M")
	require.NoError(t, err)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	_, err = RateLimit("lots")
	require.Error(t, err)
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
