package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
)

// Registry is the account registry: the single source of truth for account
// identity, type, status and materialized balance.
type Registry struct {
	accounts AccountStore
	idGen    IDGenerator
	policy   domain.BalancePolicy
}

// NewRegistry creates a new Registry.
func NewRegistry(accounts AccountStore, idGen IDGenerator, policy domain.BalancePolicy) *Registry {
	return &Registry{
		accounts: accounts,
		idGen:    idGen,
		policy:   policy,
	}
}

// Policy returns the minimum-balance policy accounts are governed by.
func (r *Registry) Policy() domain.BalancePolicy {
	return r.policy
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	HolderID       string
	HolderName     string
	Type           string
	InitialBalance decimal.Decimal
}

// Create validates the input and persists a new account within tx. The
// account starts Active with the caller-supplied initial balance; journaling
// the opening entry is the engine's responsibility.
func (r *Registry) Create(ctx context.Context, tx Transaction, input CreateAccountInput) (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(input.Type)
	if err != nil {
		return nil, err
	}

	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	if err := domain.ValidateHolderName(input.HolderName); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:         r.idGen.Generate(),
		HolderID:   input.HolderID,
		HolderName: input.HolderName,
		Type:       accountType,
		Status:     domain.AccountStatusActive,
		Balance:    input.InitialBalance,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.accounts.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Get retrieves an account by ID.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Account, error) {
	return r.accounts.GetByID(ctx, id)
}

// GetTx retrieves an account by ID within a transaction.
func (r *Registry) GetTx(ctx context.Context, tx Transaction, id string) (*domain.Account, error) {
	return r.accounts.GetByIDTx(ctx, tx, id)
}

// CompareAndSetBalance is the sole balance mutation path. The write succeeds
// only if the stored version still equals expectedVersion; the store then
// sets the balance and increments the version atomically.
func (r *Registry) CompareAndSetBalance(ctx context.Context, tx Transaction, id string, expectedVersion int64, balance decimal.Decimal) error {
	return r.accounts.CompareAndSetBalance(ctx, tx, id, expectedVersion, balance, time.Now().UTC())
}

// ChangeStatus advances the account lifecycle. Transitions are
// one-directional: Active -> Inactive -> Closed.
func (r *Registry) ChangeStatus(ctx context.Context, id string, next domain.AccountStatus) (*domain.Account, error) {
	account, err := r.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if err := r.accounts.UpdateStatus(ctx, id, account.Status, next, now); err != nil {
		return nil, err
	}

	account.Status = next
	account.UpdatedAt = now

	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// List lists accounts with pagination.
func (r *Registry) List(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return r.accounts.List(ctx, limit, offset)
}
