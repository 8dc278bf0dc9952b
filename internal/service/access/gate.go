package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/flashforge/flashforge-api/internal/store"
)

// Reason explains a denied decision.
type Reason string

// Denial reasons.
const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonTrialExpired    Reason = "trial_expired"
)

// Decision is the outcome of an access check. Account is set whenever the
// token was valid and the account could be loaded.
type Decision struct {
	Allowed bool
	Reason  Reason
	Account *domain.Account
}

// Allow returns an allowing decision for account.
func Allow(account *domain.Account) Decision {
	return Decision{Allowed: true, Account: account}
}

// Deny returns a denying decision.
func Deny(reason Reason, account *domain.Account) Decision {
	return Decision{Reason: reason, Account: account}
}

// ErrStoreUnavailable is returned by Check when the account lookup failed
// for a reason other than the account not existing.
var ErrStoreUnavailable = errors.New("account store unavailable")

// Gate evaluates access decisions.
type Gate struct {
	tokens   auth.JWTService
	accounts store.AccountStore
	now      func() time.Time
}

// NewGate creates a Gate. now defaults to time.Now when nil.
func NewGate(tokens auth.JWTService, accounts store.AccountStore, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{tokens: tokens, accounts: accounts, now: now}
}

// Authorize decides for an already loaded account. It validates token but
// does not require it to name account; Check establishes that link.
// A nil account is treated as unauthenticated.
//
//   - invalid, expired or missing token: denied, unauthenticated
//   - subscribed: allowed
//   - trial still running (now < trial end): allowed
//   - otherwise: denied, trial_expired
func (g *Gate) Authorize(ctx context.Context, token string, account *domain.Account) Decision {
	if _, err := g.tokens.ValidateToken(ctx, token); err != nil || account == nil {
		return Deny(ReasonUnauthenticated, account)
	}
	return Evaluate(account, g.now())
}

// Check validates token, loads the account it names and decides.
// A token for an account that no longer exists is unauthenticated. Store
// failures are returned as errors wrapping ErrStoreUnavailable.
func (g *Gate) Check(ctx context.Context, token string) (Decision, error) {
	claims, err := g.tokens.ValidateToken(ctx, token)
	if err != nil {
		return Deny(ReasonUnauthenticated, nil), nil
	}

	account, err := g.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if store.IsNotFoundError(err) {
			logger.FromContext(ctx).WarnContext(ctx, "token refers to unknown account",
				slog.String("account_id", claims.AccountID.String()))
			return Deny(ReasonUnauthenticated, nil), nil
		}
		return Decision{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	decision := Evaluate(account, g.now())
	if !decision.Allowed {
		logger.FromContext(ctx).InfoContext(ctx, "generation denied",
			slog.String("account_id", account.ID.String()),
			slog.String("reason", string(decision.Reason)))
	}
	return decision, nil
}

// Evaluate applies the subscription and trial rules to an authenticated account.
func Evaluate(account *domain.Account, now time.Time) Decision {
	if account.CanGenerate(now) {
		return Allow(account)
	}
	return Deny(ReasonTrialExpired, account)
}
