package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgauth "github.com/tetshop/banhtet-backend/pkg/auth"
	"github.com/tetshop/banhtet-backend/pkg/config"
)

type stubSessionChecker struct {
	known map[string]bool
	err   error
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[accessID], nil
}

func authTestJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "banhtet-test",
		ExpirationMinutes: 30,
		CookieName:        "banhtet_admin_session",
	}
}

func mintTestToken(t *testing.T, jti string) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(authTestJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "chihai@banhtet.vn",
		JTI:     jti,
	})
	require.NoError(t, err)
	return token
}

func TestAuth_acceptsCookieToken(t *testing.T) {
	token := mintTestToken(t, "jti-1")
	checker := &stubSessionChecker{known: map[string]bool{"jti-1": true}}

	var gotAdminID, gotAccessID string
	handler := Auth(authTestJWTConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAdminID = AdminIDFromContext(r.Context())
		gotAccessID = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "banhtet_admin_session", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, gotAdminID)
	assert.Equal(t, "jti-1", gotAccessID)
}

func TestAuth_acceptsBearerFallback(t *testing.T) {
	token := mintTestToken(t, "jti-2")
	checker := &stubSessionChecker{known: map[string]bool{"jti-2": true}}

	handler := Auth(authTestJWTConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuth_rejectsMissingAndInvalid(t *testing.T) {
	checker := &stubSessionChecker{known: map[string]bool{}}
	handler := Auth(authTestJWTConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "banhtet_admin_session", Value: "not-a-jwt"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_rejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, "jti-3")
	checker := &stubSessionChecker{known: map[string]bool{}}

	handler := Auth(authTestJWTConfig(), checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "banhtet_admin_session", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
