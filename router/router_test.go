// file: router/router_test.go
//
// End-to-end HTTP tests over the wired router, exercising the full session
// lifecycle against in-memory repositories: register, login, refresh with
// rotation, replay rejection, logout, logout-all and the admin surface.
package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"secure-auth-api/app"
	"secure-auth-api/handler"
	"secure-auth-api/model"
	"secure-auth-api/repository"
	"secure-auth-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	app       *app.TestApp
	userRepo  *repository.MemoryUserRepository
	tokenRepo *repository.MemoryTokenRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userRepo := repository.NewMemoryUserRepository()
	tokenRepo := repository.NewMemoryTokenRepository()
	return &testEnv{
		app:       app.NewTestApp(userRepo, tokenRepo, []byte("router-test-secret"), 15*time.Minute, time.Hour),
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// createUser inserts a user directly into the repository. MinCost keeps the
// suite fast; the production cost is covered by the service tests.
func (env *testEnv) createUser(t *testing.T, email, password, role string, isActive bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{Email: email, Password: string(hash), Role: role, IsActive: isActive}
	require.NoError(t, env.userRepo.CreateUser(user))
	return user
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	env.app.Router.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return env.do(req)
}

// login authenticates and returns the decoded pair plus the raw cookies.
func (env *testEnv) login(t *testing.T, email, password string) (service.TokenPair, []*http.Cookie) {
	t.Helper()
	rr := env.postJSON("/login", model.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rr.Code, "login failed: %s", rr.Body.String())

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pair))
	return pair, rr.Result().Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates a new user", func(t *testing.T) {
		rr := env.postJSON("/register", model.RegisterRequest{Email: "new@test.com", Password: "password123"})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var created model.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "new@test.com", created.Email)
		assert.Equal(t, string(model.RoleUser), created.Role)
		assert.NotContains(t, rr.Body.String(), "password123", "password must never appear in a response")
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		rr := env.postJSON("/register", model.RegisterRequest{Email: "new@test.com", Password: "password123"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "User already exists")
	})

	t.Run("rejects an invalid payload", func(t *testing.T) {
		rr := env.postJSON("/register", model.RegisterRequest{Email: "not-an-email", Password: "short"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@test.com", "password123", "user", true)

	t.Run("returns a token pair and session cookies", func(t *testing.T) {
		pair, cookies := env.login(t, "alice@test.com", "password123")

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, 1, env.tokenRepo.CountByUser(user.ID))

		for _, name := range []string{handler.AccessTokenCookie, handler.RefreshTokenCookie} {
			cookie := cookieByName(cookies, name)
			require.NotNil(t, cookie, "missing %s cookie", name)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
			assert.Equal(t, "/", cookie.Path)
			assert.Greater(t, cookie.MaxAge, 0)
		}

		refreshCookie := cookieByName(cookies, handler.RefreshTokenCookie)
		assert.Equal(t, pair.RefreshToken, refreshCookie.Value)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		rr := env.postJSON("/login", model.LoginRequest{Email: "alice@test.com", Password: "wrongpassword"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid credentials")
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		rr := env.postJSON("/login", model.LoginRequest{Email: "nobody@test.com", Password: "password123"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		env.createUser(t, "frozen@test.com", "password123", "user", false)

		rr := env.postJSON("/login", model.LoginRequest{Email: "frozen@test.com", Password: "password123"})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Account disabled")
	})
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "bob@test.com", "password123", "user", true)

	t.Run("rotates the session via the cookie", func(t *testing.T) {
		pair, _ := env.login(t, "bob@test.com", "password123")

		req := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
		req.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: pair.RefreshToken})
		rr := env.do(req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var rotated service.TokenPair
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rotated))
		assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
		assert.NotEmpty(t, rotated.AccessToken)

		// The consumed token must now be rejected as a replay.
		replay := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
		replay.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: pair.RefreshToken})
		rr = env.do(replay)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid token")
	})

	t.Run("accepts the token in the request body", func(t *testing.T) {
		pair, _ := env.login(t, "bob@test.com", "password123")

		rr := env.postJSON("/api/token/refresh", model.RefreshRequest{RefreshToken: pair.RefreshToken})

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("rejects a request without a token", func(t *testing.T) {
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
		req.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: "not-a-jwt"})
		rr := env.do(req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "carol@test.com", "password123", "user", true)

	t.Run("revokes the session and clears the cookies", func(t *testing.T) {
		pair, _ := env.login(t, "carol@test.com", "password123")

		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		req.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: pair.RefreshToken})
		rr := env.do(req)

		require.Equal(t, http.StatusOK, rr.Code)
		for _, name := range []string{handler.AccessTokenCookie, handler.RefreshTokenCookie} {
			cookie := cookieByName(rr.Result().Cookies(), name)
			require.NotNil(t, cookie)
			assert.Equal(t, -1, cookie.MaxAge, "%s cookie should be expired", name)
			assert.Empty(t, cookie.Value)
		}

		// The revoked token must not refresh anymore.
		refresh := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
		refresh.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: pair.RefreshToken})
		rr = env.do(refresh)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("is idempotent without a session cookie", func(t *testing.T) {
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/logout", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "dave@test.com", "password123", "user", true)

	t.Run("requires an access token", func(t *testing.T) {
		rr := env.do(httptest.NewRequest(http.MethodPost, "/api/logout-all", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("revokes every session", func(t *testing.T) {
		first, _ := env.login(t, "dave@test.com", "password123")
		second, _ := env.login(t, "dave@test.com", "password123")
		require.Equal(t, 2, env.tokenRepo.CountByUser(user.ID))

		req := httptest.NewRequest(http.MethodPost, "/api/logout-all", nil)
		req.Header.Set("Authorization", "Bearer "+second.AccessToken)
		rr := env.do(req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, 0, env.tokenRepo.CountByUser(user.ID))

		for _, token := range []string{first.RefreshToken, second.RefreshToken} {
			refresh := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
			refresh.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: token})
			assert.Equal(t, http.StatusForbidden, env.do(refresh).Code)
		}
	})
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@test.com", "password123", "admin", true)
	regular := env.createUser(t, "user@test.com", "password123", "user", true)

	adminPair, _ := env.login(t, "admin@test.com", "password123")
	userPair, _ := env.login(t, "user@test.com", "password123")

	authed := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var payload []byte
		if body != nil {
			payload, _ = json.Marshal(body)
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		return env.do(req)
	}

	t.Run("lists users for an admin", func(t *testing.T) {
		rr := authed(http.MethodGet, "/api/admin/users", adminPair.AccessToken, nil)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var users []*model.User
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
		assert.Len(t, users, 2)
		assert.NotContains(t, rr.Body.String(), "password", "hashes must never leave the API")
	})

	t.Run("denies a non-admin", func(t *testing.T) {
		rr := authed(http.MethodGet, "/api/admin/users", userPair.AccessToken, nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("denies an unauthenticated request", func(t *testing.T) {
		rr := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("promotes a user", func(t *testing.T) {
		path := fmt.Sprintf("/api/admin/users/%s/role", regular.ID)
		rr := authed(http.MethodPut, path, adminPair.AccessToken, model.UpdateUserRoleRequest{Role: model.RoleAdmin})

		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

		updated, err := env.userRepo.GetUserByID(regular.ID)
		require.NoError(t, err)
		assert.Equal(t, string(model.RoleAdmin), updated.Role)
	})

	t.Run("disabling a user revokes their sessions on next refresh", func(t *testing.T) {
		disable := false
		path := fmt.Sprintf("/api/admin/users/%s/status", regular.ID)
		rr := authed(http.MethodPut, path, adminPair.AccessToken, model.UpdateUserStatusRequest{IsActive: &disable})

		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

		refresh := httptest.NewRequest(http.MethodPost, "/api/token/refresh", nil)
		refresh.AddCookie(&http.Cookie{Name: handler.RefreshTokenCookie, Value: userPair.RefreshToken})
		resp := env.do(refresh)

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "Account disabled")
		assert.Equal(t, 0, env.tokenRepo.CountByUser(regular.ID))
	})
}
