package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing session tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the account.
	GenerateToken(ctx context.Context, accountID uuid.UUID) (Token, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Token is a signed session token together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims is the validated content of a session token.
type Claims struct {
	// AccountID is the account the token was issued for.
	AccountID uuid.UUID `json:"aid,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
