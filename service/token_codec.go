package service

import (
	"errors"
	"fmt"
	"time"

	"secure-auth-api/logger"
	"secure-auth-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
)

// TokenCodec signs and verifies the compact, tamper-evident tokens used for
// both access and refresh credentials. TTL policy belongs to the callers;
// the codec only stamps the expiry it is handed.
type TokenCodec struct {
	secretKey []byte
}

func NewTokenCodec(secretKey []byte) *TokenCodec {
	return &TokenCodec{secretKey: secretKey}
}

// Issue produces a signed token carrying the given claims plus an absolute
// expiry of now+ttl, and returns that expiry so callers persisting the token
// can record the exact same timestamp. Every token gets a fresh jti, so two
// tokens minted within the same second are still distinct strings.
func (c *TokenCodec) Issue(claims model.AppClaims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to sign token")
		return "", time.Time{}, fmt.Errorf("failed to sign token string: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature integrity and expiry, returning the embedded
// claims. Failures collapse into the three sentinel errors above; no parser
// internals leak to callers.
func (c *TokenCodec) Verify(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
