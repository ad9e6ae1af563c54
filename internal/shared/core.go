// File: internal/shared/core.go
// Package shared holds cross-cutting contracts between the auth, user and
// transport layers, keeping the packages free of import cycles.
package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Auth provider identifiers stored on user records.
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Roles assignable to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims defines the custom JWT claims carried by access tokens.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenResponse is returned by login and registration endpoints.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserDataForToken exposes the subset of user data needed to mint a token.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
	GetRole() string
}

// TokenService mints and validates access tokens.
type TokenService interface {
	GenerateAccessToken(user UserDataForToken) (*TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// TokenBlocklistService tracks tokens revoked before their natural expiry.
type TokenBlocklistService interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlocked(ctx context.Context, jti string) (bool, error)
}

// OAuthUserProfile carries the identity fields fetched from an OAuth provider
// after a successful code exchange.
type OAuthUserProfile struct {
	Provider      string
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
}

// User is the provider-agnostic user representation exchanged between the
// user package and the auth and transport layers.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	AuthProvider string     `json:"auth_provider"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// GetID implements UserDataForToken.
func (u *User) GetID() uuid.UUID { return u.ID }

// GetEmail implements UserDataForToken.
func (u *User) GetEmail() string { return u.Email }

// GetRole implements UserDataForToken.
func (u *User) GetRole() string { return u.Role }

// UserRegistrationData carries the input for password based registration.
type UserRegistrationData struct {
	Name     string
	Email    string
	Password string
}

// UserService is the contract the auth handlers and OAuth flow depend on.
// The user package provides the implementation.
type UserService interface {
	Register(ctx context.Context, data UserRegistrationData) (*User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*User, error)
	FindOrCreateOAuthUser(ctx context.Context, profile OAuthUserProfile) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	RecordLogin(ctx context.Context, userID uuid.UUID) error
}
