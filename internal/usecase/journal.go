package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
)

// Journal is the transaction journal: an append-only record of every
// balance-affecting event. Balances are derivable by replaying it; the
// registry caches the materialized balance for fast reads.
type Journal struct {
	entries EntryStore
}

// NewJournal creates a new Journal.
func NewJournal(entries EntryStore) *Journal {
	return &Journal{entries: entries}
}

// Append validates and journals an entry within tx. Appends are idempotent on
// pre-generated entry IDs: resubmitting an identical entry is a no-op that
// returns the existing ID.
func (j *Journal) Append(ctx context.Context, tx Transaction, entry *domain.Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}

	return j.entries.Append(ctx, tx, entry)
}

// GetByID retrieves a single entry.
func (j *Journal) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return j.entries.GetByID(ctx, id)
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListByAccount returns an account's history in chronological order, ties
// broken by entry ID ascending.
func (j *Journal) ListByAccount(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return j.entries.ListByAccount(ctx, input.AccountID, limit, offset)
}

// ListByCorrelation returns the paired legs of a transfer.
func (j *Journal) ListByCorrelation(ctx context.Context, correlationID string) ([]*domain.Entry, error) {
	return j.entries.ListByCorrelation(ctx, correlationID)
}

// SumByAccount returns the replayed balance: the sum of all signed entry
// amounts for the account.
func (j *Journal) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return j.entries.SumByAccount(ctx, accountID)
}
