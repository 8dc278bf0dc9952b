package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/platform/logger"
	"github.com/flashforge/flashforge-api/internal/store"
	"github.com/google/uuid"
)

const accountColumns = "id, username, hashed_password, trial_end_date, is_subscribed, created_at, updated_at"

// PostgresAccountStore implements store.AccountStore.
type PostgresAccountStore struct {
	db  store.DBTX
	now func() time.Time
}

var _ store.AccountStore = (*PostgresAccountStore)(nil)

// NewPostgresAccountStore creates a store on db, which may be a *sql.DB or *sql.Tx.
func NewPostgresAccountStore(db store.DBTX) *PostgresAccountStore {
	return &PostgresAccountStore{db: db, now: time.Now}
}

// Create implements store.AccountStore.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if account.HashedPassword == "" {
		return store.NewStoreError("account", "create", "hashed password is required", store.ErrInvalidEntity)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID,
		account.Username,
		account.HashedPassword,
		account.TrialEndDate.UTC(),
		account.IsSubscribed,
		account.CreatedAt.UTC(),
		account.UpdatedAt.UTC(),
	)
	if err != nil {
		err = mapAccountError(err)
		if !errors.Is(err, store.ErrUsernameExists) {
			logger.FromContext(ctx).ErrorContext(ctx, "failed to insert account",
				slog.Any("error", err),
				slog.String("account_id", account.ID.String()))
		}
		return err
	}
	return nil
}

// GetByID implements store.AccountStore.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// GetByUsername implements store.AccountStore. Usernames compare case-insensitively.
func (s *PostgresAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower($1)`, username)
	return scanAccount(row)
}

// SetSubscribed implements store.AccountStore.
func (s *PostgresAccountStore) SetSubscribed(
	ctx context.Context,
	username string,
	subscribed bool,
) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE accounts SET is_subscribed = $2, updated_at = $3
		 WHERE lower(username) = lower($1)
		 RETURNING `+accountColumns,
		username, subscribed, s.now().UTC())
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.HashedPassword,
		&a.TrialEndDate,
		&a.IsSubscribed,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, mapAccountError(err)
	}
	return &a, nil
}
