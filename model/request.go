// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries a refresh token for clients that cannot use the
// cookie transport. The cookie, when present, takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
// Using a dedicated struct instead of an inline anonymous struct in the handler
// improves code clarity, reusability, and compatibility with tooling like swag.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}

// UpdateUserStatusRequest defines the payload for enabling or disabling an
// account. The pointer makes a missing field distinguishable from false.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
