package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the payload of both access and refresh tokens. Refresh tokens
// carry only the user id; access tokens minted at login additionally carry
// the role, while access tokens minted on rotation do not.
type AppClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
