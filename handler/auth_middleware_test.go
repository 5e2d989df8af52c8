// file: handler/auth_middleware_test.go

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"secure-auth-api/model"
	"secure-auth-api/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	codec := service.NewTokenCodec([]byte("middleware-test-secret"))
	userID := uuid.NewString()

	issue := func(t *testing.T, role string, ttl time.Duration) string {
		t.Helper()
		token, _, err := codec.Issue(model.AppClaims{UserID: userID, Role: role}, ttl)
		require.NoError(t, err)
		return token
	}

	// next records the context values the middleware is expected to inject.
	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(UserIDKey).(string)
		gotRole, _ = r.Context().Value(UserRoleKey).(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(codec)(next)

	t.Run("rejects a request without a token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a malformed bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "user", -time.Minute))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("passes claims through via the bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "admin", time.Minute))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, "admin", gotRole)
	})

	t.Run("passes claims through via the session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issue(t, "user", time.Minute)})
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, userID, gotUserID)
		assert.Equal(t, "user", gotRole)
	})

	t.Run("prefers the cookie over the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issue(t, "user", time.Minute)})
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAdminMiddleware(t *testing.T) {
	codec := service.NewTokenCodec([]byte("middleware-test-secret"))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := AuthMiddleware(codec)(AdminMiddleware(next))

	issue := func(t *testing.T, role string) string {
		t.Helper()
		token, _, err := codec.Issue(model.AppClaims{UserID: uuid.NewString(), Role: role}, time.Minute)
		require.NoError(t, err)
		return token
	}

	t.Run("allows an admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "admin"))
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("denies a regular user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "user"))
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("denies a token without a role claim", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, ""))
		rr := httptest.NewRecorder()
		guarded.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
