package store

import (
	"context"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/google/uuid"
)

// AccountStore persists accounts. Lookups are read-only; the access gate
// never writes through it.
type AccountStore interface {
	// Create saves a new account. The account must already carry a hashed
	// password. Returns ErrUsernameExists if the username is taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	// Returns ErrAccountNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account by username.
	// Returns ErrAccountNotFound if it does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// SetSubscribed flips the subscription flag of the named account and
	// returns the updated record. Returns ErrAccountNotFound if it does not exist.
	SetSubscribed(ctx context.Context, username string, subscribed bool) (*domain.Account, error)
}
