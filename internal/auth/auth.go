package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Subject is what a token is issued for.
type Subject struct {
	UserID int64
	Email  string
	Role   identity.Role
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64         `json:"user_id"`
	Email     string        `json:"email"`
	Role      identity.Role `json:"tipo_usuario"`
	TokenType string        `json:"typ"`
	jwt.RegisteredClaims
}

// Remaining is how long the token stays valid from now.
func (c *Claims) Remaining() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

// TokenGenerator creates and verifies signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(sub Subject) (string, error)
	GenerateRefreshToken(sub Subject) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// TokenRevoker remembers token ids that must no longer be accepted.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Credentials is the login view of a user row.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	Role         identity.Role
	Status       string
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AuthTokens
	User *user.User `json:"usuario"`
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// NopRevoker is used when no revocation store is configured; logout then
// only discards the client side tokens.
type NopRevoker struct{}

func (NopRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error { return nil }

func (NopRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) { return false, nil }
