package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/mocks"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: auth.ErrMissingToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: auth.ErrInvalidToken},
		{name: "no token", header: "Bearer ", wantErr: auth.ErrInvalidToken},
		{name: "scheme only", header: "Bearer", wantErr: auth.ErrInvalidToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			got, err := BearerToken(req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()

	tests := []struct {
		name        string
		header      string
		validateErr error
		wantStatus  int
		wantMessage string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantMessage: "Authorization header required"},
		{
			name:        "bad format",
			header:      "Token good",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "expired",
			header:      "Bearer good",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token expired",
		},
		{
			name:        "invalid",
			header:      "Bearer good",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "unexpected failure",
			header:      "Bearer good",
			validateErr: errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Authentication error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				ValidateTokenFn: func(_ context.Context, _ string) (*auth.Claims, error) {
					if tc.validateErr != nil {
						return nil, tc.validateErr
					}
					return &auth.Claims{AccountID: accountID}, nil
				},
			}

			var seen uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = shared.AccountIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			NewAuthMiddleware(jwtService).Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, accountID, seen)
				return
			}

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body.Error)
			assert.Equal(t, uuid.Nil, seen, "next handler must not run")
		})
	}
}
