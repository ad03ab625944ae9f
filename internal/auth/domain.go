// Package auth issues and validates access credentials for the admin surface.
package auth

import "time"

// Admin is an account that can sign in. Customers also live here, the role
// decides what they may reach.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken is the stored (hashed) half of an opaque refresh credential.
// Each admin holds at most one: rotation replaces it in place.
type RefreshToken struct {
	ID        int64
	AdminID   int64
	TokenHash string
	ExpiresAt time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=SuperAdmin Admin Manager Customer"`
}

// LoginRequest is the payload for credential exchange.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the opaque refresh token when it is not presented as
// a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is the issued credential set.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// LoginResponse couples the account with its fresh tokens.
type LoginResponse struct {
	Admin  Admin     `json:"admin"`
	Tokens TokenPair `json:"tokens"`
}
