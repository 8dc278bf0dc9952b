package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/google/uuid"
)

// ContextKey is the type of request context keys owned by the API layer.
type ContextKey string

const (
	// AccountContextKey holds the *domain.Account admitted by the access middleware.
	AccountContextKey ContextKey = "account"

	// AccountIDContextKey holds the uuid.UUID taken from a valid session token.
	AccountIDContextKey ContextKey = "accountID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns 32 hex characters. If crypto/rand fails a random
// UUID with the dashes removed is used instead.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate secure random trace ID", "error", err)
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}

// WithAccountID stores the authenticated account ID.
func WithAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDContextKey, id)
}

// AccountIDFromContext returns the authenticated account ID, if any.
func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithAccount stores the account admitted for this request.
func WithAccount(ctx context.Context, account *domain.Account) context.Context {
	return context.WithValue(ctx, AccountContextKey, account)
}

// AccountFromContext returns the admitted account, if any.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(AccountContextKey).(*domain.Account)
	return account, ok && account != nil
}
