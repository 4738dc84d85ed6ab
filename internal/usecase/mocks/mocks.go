// Package mocks provides hand-rolled fakes for the usecase store interfaces.
// Each fake keeps state in maps and lets tests override individual methods
// through Func fields.
package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// MockAccountStore is a mock implementation of usecase.AccountStore.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDTxFunc            func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	CompareAndSetBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, expectedVersion int64, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc         func(ctx context.Context, id string, from, to domain.AccountStatus, updatedAt time.Time) error
	ListFunc                 func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed installs an account directly, bypassing the Create path.
func (m *MockAccountStore) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.ID] = &copied
}

func (m *MockAccountStore) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountStore) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountStore) CompareAndSetBalance(ctx context.Context, tx usecase.Transaction, id string, expectedVersion int64, balance decimal.Decimal, updatedAt time.Time) error {
	if m.CompareAndSetBalanceFunc != nil {
		return m.CompareAndSetBalanceFunc(ctx, tx, id, expectedVersion, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountStore) UpdateStatus(ctx context.Context, id string, from, to domain.AccountStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, from, to, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Status != from {
		return domain.ErrVersionConflict
	}
	acc.Status = to
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		copied := *acc
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// MockEntryStore is a mock implementation of usecase.EntryStore.
type MockEntryStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	AppendFunc            func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (string, error)
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Entry, error)
	ListByAccountFunc     func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	ListByCorrelationFunc func(ctx context.Context, correlationID string) ([]*domain.Entry, error)
	SumByAccountFunc      func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockEntryStore() *MockEntryStore {
	return &MockEntryStore{
		entries: make(map[string]*domain.Entry),
	}
}

func (m *MockEntryStore) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (string, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[entry.ID]; ok {
		if existing.SameContent(entry) {
			return existing.ID, nil
		}
		return "", domain.ErrInvalidEntry
	}
	copied := *entry
	m.entries[entry.ID] = &copied
	return entry.ID, nil
}

func (m *MockEntryStore) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			copied := *e
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (m *MockEntryStore) ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	if m.ListByCorrelationFunc != nil {
		return m.ListByCorrelationFunc(ctx, correlationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.CorrelationID == correlationID {
			copied := *e
			entries = append(entries, &copied)
		}
	}
	return entries, nil
}

func (m *MockEntryStore) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// MockHolderStore is a mock implementation of usecase.HolderStore.
type MockHolderStore struct {
	mu      sync.RWMutex
	holders map[string]*domain.Holder

	CreateFunc  func(ctx context.Context, holder *domain.Holder) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Holder, error)
}

func NewMockHolderStore() *MockHolderStore {
	return &MockHolderStore{
		holders: make(map[string]*domain.Holder),
	}
}

func (m *MockHolderStore) Create(ctx context.Context, holder *domain.Holder) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, holder)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holders[holder.ID] = holder
	return nil
}

func (m *MockHolderStore) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.holders[id]; ok {
		return h, nil
	}
	return nil, domain.ErrHolderNotFound
}

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of usecase.TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + strconv.Itoa(m.counter)
}
