package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
)

// AccountStore defines data access for accounts. All balance mutation funnels
// through CompareAndSetBalance; there is no unconditional balance write.
type AccountStore interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// CompareAndSetBalance sets the balance and increments the version only if
	// the stored version equals expectedVersion. Returns domain.ErrVersionConflict
	// otherwise.
	CompareAndSetBalance(ctx context.Context, tx Transaction, id string, expectedVersion int64, balance decimal.Decimal, updatedAt time.Time) error
	// UpdateStatus moves the account from one status to another. Returns
	// domain.ErrVersionConflict if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.AccountStatus, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// EntryStore defines data access for journal entries. The journal is
// append-only; rows are never updated or deleted.
type EntryStore interface {
	// Append writes the entry and returns its ID. If an entry with the same ID
	// and identical content already exists the write is a no-op returning the
	// existing ID; same ID with different content is domain.ErrInvalidEntry.
	Append(ctx context.Context, tx Transaction, entry *domain.Entry) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// ListByAccount returns entries in chronological order, ties broken by
	// entry ID ascending.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error)
	// SumByAccount returns the sum of signed entry amounts for the account.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// HolderStore defines data access for account holders.
type HolderStore interface {
	Create(ctx context.Context, holder *domain.Holder) error
	GetByID(ctx context.Context, id string) (*domain.Holder, error)
}

// Transaction represents a store transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient store errors (deadlocks,
// serialization failures). Implementations decide which errors qualify;
// anything else is returned unchanged.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
