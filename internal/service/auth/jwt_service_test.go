package auth

import (
	"context"
	"testing"
	"time"

	"github.com/flashforge/flashforge-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func newTestService(t *testing.T, secret string, now time.Time) JWTService {
	t.Helper()
	svc, err := NewJWTService(
		config.AuthConfig{JWTSecret: secret, TokenLifetimeMinutes: 60},
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})

	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	accountID := uuid.New()
	svc := newTestService(t, testSecret, fixedTime)

	token, err := svc.GenerateToken(context.Background(), accountID)
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), token.ExpiresAt.Unix())

	claims, err := svc.ValidateToken(context.Background(), token.Value)
	require.NoError(t, err)

	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, accountID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	accountID := uuid.New()

	issue := func(t *testing.T, secret string, at time.Time) string {
		t.Helper()
		token, err := newTestService(t, secret, at).GenerateToken(context.Background(), accountID)
		require.NoError(t, err)
		return token.Value
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		validAt time.Time
		wantErr error
	}{
		{
			name:    "valid token",
			token:   func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			validAt: fixedTime.Add(30 * time.Minute),
		},
		{
			name:    "expired token",
			token:   func(t *testing.T) string { return issue(t, testSecret, fixedTime) },
			validAt: fixedTime.Add(2 * time.Hour),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "issued in the future",
			token:   func(t *testing.T) string { return issue(t, testSecret, fixedTime.Add(time.Hour)) },
			validAt: fixedTime,
			wantErr: ErrTokenNotYetValid,
		},
		{
			name:    "invalid signature",
			token:   func(t *testing.T) string { return issue(t, wrongSecret, fixedTime) },
			validAt: fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   func(t *testing.T) string { return "this.is.not.a.valid.jwt.token" },
			validAt: fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			token:   func(t *testing.T) string { return "" },
			validAt: fixedTime,
			wantErr: ErrMissingToken,
		},
		{
			name: "foreign issuer",
			token: func(t *testing.T) string {
				claims := sessionClaims{
					AccountID: accountID,
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    "someone-else",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
				require.NoError(t, err)
				return signed
			},
			validAt: fixedTime,
			wantErr: ErrInvalidToken,
		},
		{
			name: "none algorithm",
			token: func(t *testing.T) string {
				claims := sessionClaims{
					AccountID: accountID,
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    Issuer,
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return signed
			},
			validAt: fixedTime,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t, testSecret, tt.validAt)
			claims, err := svc.ValidateToken(context.Background(), tt.token(t))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, accountID, claims.AccountID)
		})
	}
}
