package middleware

import (
	"context"
	"net/http"

	"github.com/flashforge/flashforge-api/internal/api/shared"
	"github.com/flashforge/flashforge-api/internal/service/access"
)

// Messages returned for denied requests. They double as machine-readable
// reasons for the front-end.
const (
	MessageUnauthenticated = "unauthenticated"
	MessageTrialExpired    = "trial_expired"
)

// AccessChecker decides whether a session token may use the generation
// pipeline. *access.Gate implements it.
type AccessChecker interface {
	Check(ctx context.Context, token string) (access.Decision, error)
}

// AccessMiddleware runs the access gate in front of the generation routes.
type AccessMiddleware struct {
	checker AccessChecker
}

// NewAccessMiddleware creates an AccessMiddleware.
func NewAccessMiddleware(checker AccessChecker) *AccessMiddleware {
	return &AccessMiddleware{checker: checker}
}

// RequireAccess admits the request only when the gate allows it.
// Unauthenticated requests get 401, expired trials 403 and store failures 503.
// The admitted account is stored in the request context.
func (m *AccessMiddleware) RequireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := BearerToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MessageUnauthenticated)
			return
		}

		decision, err := m.checker.Check(r.Context(), token)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Service temporarily unavailable", err)
			return
		}

		if !decision.Allowed {
			if decision.Reason == access.ReasonTrialExpired {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, MessageTrialExpired, nil,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, MessageUnauthenticated)
			return
		}

		ctx := shared.WithAccountID(r.Context(), decision.Account.ID)
		ctx = shared.WithAccount(ctx, decision.Account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
