package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/service/auth"
	"github.com/flashforge/flashforge-api/internal/store"
	"github.com/google/uuid"
)

// Session is an authenticated account together with its issued token.
type Session struct {
	Account *domain.Account
	Token   auth.Token
}

// AccountService provides registration, login and account lookup.
type AccountService interface {
	// Register creates an account with a fresh trial window and signs it in.
	// Returns a domain.ErrValidation error for a malformed username or
	// password, and store.ErrUsernameExists when the username is taken.
	Register(ctx context.Context, username, password string) (*Session, error)

	// Login verifies the credentials and issues a new token.
	// Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, username, password string) (*Session, error)

	// GetAccount retrieves an account by ID.
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	tokens   auth.JWTService
	trial    time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewAccountService creates a new AccountService. trial is the window
// granted at registration.
func NewAccountService(
	accounts store.AccountStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	trial time.Duration,
	logger *slog.Logger,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		trial:    trial,
		now:      time.Now,
		logger:   logger.With("component", "account_service"),
	}
}

// Register implements AccountService.
func (s *AccountServiceImpl) Register(ctx context.Context, username, password string) (*Session, error) {
	account, err := domain.NewAccount(username, password, s.now(), s.trial)
	if err != nil {
		return nil, err
	}

	account.HashedPassword, err = s.hasher.Hash(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.DebugContext(ctx, "attempted to register existing username")
		} else {
			s.logger.ErrorContext(ctx, "failed to save account", "error", err)
		}
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		"account_id", account.ID,
		"trial_ends_at", account.TrialEndDate)

	return &Session{Account: account, Token: token}, nil
}

// Login implements AccountService.
func (s *AccountServiceImpl) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to look up account for login", "error", err)
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "failed to verify password", "error", err, "account_id", account.ID)
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.DebugContext(ctx, "account logged in", "account_id", account.ID)
	return &Session{Account: account, Token: token}, nil
}

// GetAccount implements AccountService.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.ErrorContext(ctx, "failed to retrieve account", "error", err, "account_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}
	return account, nil
}

// SetSubscription flips the subscription flag of the named account. It is
// an operator action exposed through the CLI, not the HTTP API.
func (s *AccountServiceImpl) SetSubscription(
	ctx context.Context,
	username string,
	subscribed bool,
) (*domain.Account, error) {
	account, err := s.accounts.SetSubscribed(ctx, username, subscribed)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription updated",
		"account_id", account.ID,
		"is_subscribed", account.IsSubscribed)
	return account, nil
}
