package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"secure-auth-api/common"
	"secure-auth-api/logger"
	"secure-auth-api/model"
	"secure-auth-api/service"

	"github.com/google/uuid"
)

// Session cookie names. Both are HttpOnly and SameSite=Strict, scoped to the
// whole application path, with lifetimes matching each token's TTL.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Authenticate with email and password
// @Description  Verifies credentials and issues an access/refresh token pair as session cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      model.LoginRequest  true  "Credentials"
// @Success      200      {object}  service.TokenPair
// @Failure      400      {string}  string  "missing or invalid fields"
// @Failure      401      {object}  common.AppError
// @Failure      403      {object}  common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithField("email", req.Email)
	log.Info("Login request received")

	pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			return common.NewAppError(http.StatusForbidden, "Account disabled", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
		}
	}

	h.setSessionCookies(w, pair)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Refresh godoc
// @Summary      Rotate the refresh token
// @Description  Validates the presented refresh token, invalidates it and issues a fresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  service.TokenPair
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /api/token/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	refreshToken := ""
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}
	if refreshToken == "" {
		// Cookie-less clients may send the token in the body instead.
		var req model.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	pair, err := h.authService.Refresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenSignature),
			errors.Is(err, service.ErrTokenMalformed):
			// No distinction between the token failure modes is surfaced;
			// all are simply unauthenticated.
			return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
		case errors.Is(err, service.ErrSessionNotFound):
			return common.NewAppError(http.StatusForbidden, "Invalid token", nil)
		case errors.Is(err, service.ErrSessionExpired):
			return common.NewAppError(http.StatusForbidden, "Expired token", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			return common.NewAppError(http.StatusForbidden, "Account disabled", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
		}
	}

	h.setSessionCookies(w, pair)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pair)
	return nil
}

// Logout godoc
// @Summary      Log out of the current session
// @Description  Deletes the refresh session matching the presented cookie and clears both session cookies. Idempotent.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  common.AppError
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
		}
	}

	h.clearSessionCookies(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
	return nil
}

// LogoutAll godoc
// @Summary      Log out of every session
// @Description  Revokes every refresh session of the authenticated user, identified by the access token's claims.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Failure      500  {object}  common.AppError
// @Security     BearerAuth
// @Router       /api/logout-all [post]
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) *common.AppError {
	userIDValue, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}
	userID, err := uuid.Parse(userIDValue)
	if err != nil {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.authService.LogoutAll(userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	h.clearSessionCookies(w)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out from all devices"})
	return nil
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.authService.AccessTokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.authService.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
