package mocks

import (
	"context"
	"time"

	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/google/uuid"
)

var _ auth.JWTService = (*MockJWTService)(nil)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, accountID uuid.UUID) (auth.Token, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	ExpiresAt   time.Time
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, accountID uuid.UUID) (auth.Token, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, accountID)
	}
	if m.Err != nil {
		return auth.Token{}, m.Err
	}
	return auth.Token{Value: m.Token, ExpiresAt: m.ExpiresAt}, nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// NewMockJWTServiceForAccount creates a MockJWTService that accepts exactly
// token and resolves it to accountID. Any other token is invalid.
func NewMockJWTServiceForAccount(token string, accountID uuid.UUID) *MockJWTService {
	return &MockJWTService{
		Token: token,
		ValidateTokenFn: func(_ context.Context, tokenString string) (*auth.Claims, error) {
			if tokenString == "" {
				return nil, auth.ErrMissingToken
			}
			if tokenString != token {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{AccountID: accountID, Subject: accountID.String()}, nil
		},
	}
}
