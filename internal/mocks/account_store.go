package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/store"
	"github.com/google/uuid"
)

var _ store.AccountStore = (*MockAccountStore)(nil)

// MockAccountStore is an in-memory store.AccountStore. Function fields
// override the in-memory behavior when set.
type MockAccountStore struct {
	CreateFn        func(ctx context.Context, account *domain.Account) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)

	mu       sync.Mutex
	accounts map[uuid.UUID]domain.Account
}

// NewMockAccountStore creates a store pre-populated with accounts.
func NewMockAccountStore(accounts ...*domain.Account) *MockAccountStore {
	m := &MockAccountStore{accounts: make(map[uuid.UUID]domain.Account)}
	for _, a := range accounts {
		m.accounts[a.ID] = *a
	}
	return m
}

// Create implements store.AccountStore.
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accounts == nil {
		m.accounts = make(map[uuid.UUID]domain.Account)
	}
	for _, existing := range m.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return store.ErrUsernameExists
		}
	}
	m.accounts[account.ID] = *account
	return nil
}

// GetByID implements store.AccountStore.
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

// GetByUsername implements store.AccountStore.
func (m *MockAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Username, username) {
			found := a
			return &found, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// SetSubscribed implements store.AccountStore.
func (m *MockAccountStore) SetSubscribed(
	_ context.Context,
	username string,
	subscribed bool,
) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.accounts {
		if strings.EqualFold(a.Username, username) {
			a.IsSubscribed = subscribed
			m.accounts[id] = a
			return &a, nil
		}
	}
	return nil, store.ErrAccountNotFound
}
