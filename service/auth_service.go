package service

import (
	"errors"
	"fmt"
	"time"

	"secure-auth-api/logger"
	"secure-auth-api/model"
	"secure-auth-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Default token lifetimes, used when the auth.* config keys are unset.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")

	// ErrSessionNotFound covers a refresh token that verifies but has no
	// store row: already consumed, revoked, or never issued here. Callers
	// should treat it as a replay signal.
	ErrSessionNotFound = errors.New("refresh session not found")
	// ErrSessionExpired covers a stored session whose expiry has passed.
	ErrSessionExpired = errors.New("refresh session expired")
)

// TokenPair bundles the short-lived access token and the long-lived rotating
// refresh token returned on login and on every successful rotation.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AuthService orchestrates the session protocol: login issues a fresh
// access/refresh pair, refresh validates and rotates, logout revokes one
// session and logout-all revokes every session a user holds.
type AuthService struct {
	userRepo   repository.IUserRepository
	tokenRepo  repository.ITokenRepository
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, codec *TokenCodec, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) AccessTokenTTL() time.Duration  { return s.accessTTL }
func (s *AuthService) RefreshTokenTTL() time.Duration { return s.refreshTTL }

// verifyCredentials checks an email/password pair against the credential
// store. The bcrypt comparison only ever runs against an existing record;
// a missing user short-circuits without touching the hasher.
func (s *AuthService) verifyCredentials(email, password string) (*model.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and, on success, issues a new session pair and
// persists its refresh half.
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	user, err := s.verifyCredentials(email, password)
	if err != nil {
		return nil, err
	}

	pair, err := s.issueSessionPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return pair, nil
}

// Refresh validates a presented refresh token and rotates it: the old
// session row is deleted, a new pair is minted and the new refresh session
// persisted. A token that fails signature or embedded-expiry checks returns
// a token error; a token missing from the store returns ErrSessionNotFound.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		// A disabled account must not keep live sessions around.
		if _, err := s.tokenRepo.DeleteAllByUser(userID); err != nil {
			return nil, err
		}
		logger.Log.WithField("user_id", claims.UserID).Info("Revoked all sessions of inactive account")
		return nil, ErrAccountDisabled
	}

	session, err := s.tokenRepo.GetByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if session == nil {
		logger.Log.WithField("user_id", claims.UserID).Warn("Refresh token not found in store; possible replay")
		return nil, ErrSessionNotFound
	}
	if session.ExpiresAt.Before(time.Now()) {
		// Expiry is enforced lazily; stale rows are removed on discovery.
		if _, err := s.tokenRepo.DeleteByToken(refreshToken); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	// Rotation. The atomic delete is the race boundary: of any concurrent
	// presenters of the same token, exactly one sees deleted == true and
	// proceeds to mint the replacement pair.
	deleted, err := s.tokenRepo.DeleteByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !deleted {
		logger.Log.WithField("user_id", claims.UserID).Warn("Refresh token consumed concurrently; possible replay")
		return nil, ErrSessionNotFound
	}

	// The rotated access token carries only the user id, no role claim,
	// matching what was issued for this session's previous rotations.
	pair, err := s.issueSessionPair(userID, "")
	if err != nil {
		// The old session is already gone; the client must log in again.
		// Re-inserting the consumed token would resurrect an invalidated
		// credential, so it is never attempted.
		return nil, err
	}

	logger.Log.WithField("user_id", claims.UserID).Info("Refresh token rotated")
	return pair, nil
}

// Logout revokes the session matching the presented refresh token.
// A token with no matching session is not an error; logout is idempotent.
func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.tokenRepo.DeleteByToken(refreshToken)
	return err
}

// LogoutAll revokes every refresh session the user holds. The caller derives
// the user id from a verified access token.
func (s *AuthService) LogoutAll(userID uuid.UUID) error {
	count, err := s.tokenRepo.DeleteAllByUser(userID)
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"revoked": count,
	}).Info("Revoked all refresh sessions for user")
	return nil
}

// issueSessionPair mints an access and a refresh token and persists the
// refresh session. The refresh token's embedded expiry and the stored row's
// ExpiresAt come from one computed timestamp.
func (s *AuthService) issueSessionPair(userID uuid.UUID, role string) (*TokenPair, error) {
	accessToken, _, err := s.codec.Issue(model.AppClaims{UserID: userID.String(), Role: role}, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.codec.Issue(model.AppClaims{UserID: userID.String()}, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	session := &model.RefreshSession{
		Token:     refreshToken,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to persist refresh session: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
