// file: model/token.go

package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshSession is one outstanding refresh token. The signed token string is
// the lookup key; the presence of the row is the sole source of truth for
// whether the token is still live. A user may hold many sessions at once,
// one per device.
type RefreshSession struct {
	Token     string    `json:"-"` // credential material, never exposed in JSON
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
