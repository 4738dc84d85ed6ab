// Package memory provides an in-memory ledger store. Mutations are staged on
// a transaction and applied atomically under a single store mutex at commit,
// where version checks are re-evaluated, so the store honors the same
// compare-and-set contract as the postgres adapter. Used by tests and for
// embedded single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// Store holds all committed state behind one mutex.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	entries  map[string]*domain.Entry
	holders  map[string]*domain.Holder

	// AppendFault, when set, is consulted on every entry append. Tests use it
	// to simulate store failures mid-operation.
	AppendFault func(entry *domain.Entry) error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		entries:  make(map[string]*domain.Entry),
		holders:  make(map[string]*domain.Holder),
	}
}

// Accounts returns the usecase.AccountStore view of the store.
func (s *Store) Accounts() *AccountStore { return &AccountStore{store: s} }

// Entries returns the usecase.EntryStore view of the store.
func (s *Store) Entries() *EntryStore { return &EntryStore{store: s} }

// Holders returns the usecase.HolderStore view of the store.
func (s *Store) Holders() *HolderStore { return &HolderStore{store: s} }

type casOp struct {
	accountID       string
	expectedVersion int64
	balance         decimal.Decimal
	updatedAt       time.Time
}

// Tx stages mutations until Commit applies them atomically.
type Tx struct {
	store   *Store
	done    bool
	creates []*domain.Account
	appends []*domain.Entry
	casOps  []casOp
}

// Begin starts a new staged transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: s}, nil
}

// Commit applies all staged mutations under the store lock. Version checks
// are re-evaluated first; if any fails, nothing is applied.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]bool, len(t.creates))
	for _, account := range t.creates {
		staged[account.ID] = true
	}

	for _, entry := range t.appends {
		if existing, ok := s.entries[entry.ID]; ok {
			if !existing.SameContent(entry) {
				return domain.ErrInvalidEntry
			}
			continue
		}

		if _, ok := s.accounts[entry.AccountID]; !ok && !staged[entry.AccountID] {
			return domain.ErrAccountNotFound
		}
	}

	for _, op := range t.casOps {
		account, ok := s.accounts[op.accountID]
		if !ok {
			return domain.ErrAccountNotFound
		}

		if account.Version != op.expectedVersion {
			return domain.ErrVersionConflict
		}
	}

	for _, account := range t.creates {
		copied := *account
		s.accounts[account.ID] = &copied
	}

	for _, entry := range t.appends {
		if _, ok := s.entries[entry.ID]; ok {
			continue
		}
		copied := *entry
		s.entries[entry.ID] = &copied
	}

	for _, op := range t.casOps {
		account := s.accounts[op.accountID]
		account.Balance = op.balance
		account.Version++
		account.UpdatedAt = op.updatedAt
	}

	return nil
}

// Rollback discards staged mutations.
func (t *Tx) Rollback(ctx context.Context) error {
	t.done = true
	t.creates = nil
	t.appends = nil
	t.casOps = nil

	return nil
}

func asTx(tx usecase.Transaction) *Tx {
	return tx.(*Tx)
}

// AccountStore implements usecase.AccountStore over a Store.
type AccountStore struct {
	store *Store
}

// Create stages a new account.
func (a *AccountStore) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	copied := *account
	t := asTx(tx)
	t.creates = append(t.creates, &copied)

	return nil
}

// GetByID returns a copy of the committed account.
func (a *AccountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	s := a.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	copied := *account

	return &copied, nil
}

// GetByIDTx reads committed state; staged mutations of the same transaction
// are not visible, matching the optimistic read-then-commit protocol.
func (a *AccountStore) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return a.GetByID(ctx, id)
}

// CompareAndSetBalance stages a versioned balance write. The version is
// checked against committed state now, for fast conflict detection, and again
// at commit.
func (a *AccountStore) CompareAndSetBalance(ctx context.Context, tx usecase.Transaction, id string, expectedVersion int64, balance decimal.Decimal, updatedAt time.Time) error {
	s := a.store

	s.mu.RLock()
	account, ok := s.accounts[id]
	conflicted := ok && account.Version != expectedVersion
	s.mu.RUnlock()

	if !ok {
		return domain.ErrAccountNotFound
	}

	if conflicted {
		return domain.ErrVersionConflict
	}

	t := asTx(tx)
	t.casOps = append(t.casOps, casOp{
		accountID:       id,
		expectedVersion: expectedVersion,
		balance:         balance,
		updatedAt:       updatedAt,
	})

	return nil
}

// UpdateStatus moves the account between lifecycle states. The write is
// conditional on the current status still being from.
func (a *AccountStore) UpdateStatus(ctx context.Context, id string, from, to domain.AccountStatus, updatedAt time.Time) error {
	s := a.store

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	if account.Status != from {
		return domain.ErrVersionConflict
	}

	account.Status = to
	account.UpdatedAt = updatedAt

	return nil
}

// List returns committed accounts ordered by creation time, then ID.
func (a *AccountStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	s := a.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}

	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})

	return paginate(accounts, limit, offset), nil
}

// EntryStore implements usecase.EntryStore over a Store.
type EntryStore struct {
	store *Store
}

// Append stages a journal entry. A committed entry with the same ID and
// identical content makes the append a no-op.
func (e *EntryStore) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (string, error) {
	s := e.store

	if s.AppendFault != nil {
		if err := s.AppendFault(entry); err != nil {
			return "", err
		}
	}

	s.mu.RLock()
	existing, ok := s.entries[entry.ID]
	s.mu.RUnlock()

	if ok {
		if !existing.SameContent(entry) {
			return "", domain.ErrInvalidEntry
		}

		return existing.ID, nil
	}

	copied := *entry
	t := asTx(tx)
	t.appends = append(t.appends, &copied)

	return entry.ID, nil
}

// GetByID returns a copy of the committed entry.
func (e *EntryStore) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	s := e.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	copied := *entry

	return &copied, nil
}

// ListByAccount returns the account's entries in chronological order, ties
// broken by entry ID ascending.
func (e *EntryStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	s := e.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*domain.Entry
	for _, entry := range s.entries {
		if entry.AccountID == accountID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}

	sortEntries(entries)

	return paginate(entries, limit, offset), nil
}

// ListByCorrelation returns the entries sharing a correlation ID.
func (e *EntryStore) ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	s := e.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*domain.Entry
	for _, entry := range s.entries {
		if entry.CorrelationID == correlationID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}

	sortEntries(entries)

	return entries, nil
}

// SumByAccount sums the signed amounts of the account's entries.
func (e *EntryStore) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	s := e.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, entry := range s.entries {
		if entry.AccountID == accountID {
			sum = sum.Add(entry.Amount)
		}
	}

	return sum, nil
}

// HolderStore implements usecase.HolderStore over a Store.
type HolderStore struct {
	store *Store
}

// Create persists a holder.
func (h *HolderStore) Create(ctx context.Context, holder *domain.Holder) error {
	s := h.store

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *holder
	s.holders[holder.ID] = &copied

	return nil
}

// GetByID returns a copy of the holder.
func (h *HolderStore) GetByID(ctx context.Context, id string) (*domain.Holder, error) {
	s := h.store

	s.mu.RLock()
	defer s.mu.RUnlock()

	holder, ok := s.holders[id]
	if !ok {
		return nil, domain.ErrHolderNotFound
	}

	copied := *holder

	return &copied, nil
}

func sortEntries(entries []*domain.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}

	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
