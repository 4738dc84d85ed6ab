package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/adapter/repository/memory"
	"github.com/mrnovoice/bankledger/internal/adapter/repository/postgres"
	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// TestLedger wires a full ledger stack over the in-memory store. The memory
// store enforces the same version checks at commit as the database-backed
// store, so concurrency behavior is exercised for real.
type TestLedger struct {
	Store          *memory.Store
	Registry       *usecase.Registry
	Journal        *usecase.Journal
	Engine         *usecase.Engine
	Reconciliation *usecase.ReconciliationUseCase
	t              *testing.T
}

// NewTestLedger creates a fully wired ledger over a fresh in-memory store.
func NewTestLedger(t *testing.T, opts ...usecase.EngineOption) *TestLedger {
	t.Helper()

	return NewTestLedgerWithPolicy(t, domain.BalancePolicy{CurrentFloor: decimal.Zero}, opts...)
}

// NewTestLedgerWithPolicy creates a ledger with a custom balance policy.
func NewTestLedgerWithPolicy(t *testing.T, policy domain.BalancePolicy, opts ...usecase.EngineOption) *TestLedger {
	t.Helper()

	store := memory.NewStore()
	idGen := postgres.NewULIDGenerator()

	registry := usecase.NewRegistry(store.Accounts(), idGen, policy)
	journal := usecase.NewJournal(store.Entries())

	engineOpts := []usecase.EngineOption{
		usecase.WithLogger(zerolog.Nop()),
		usecase.WithMaxCommitAttempts(100),
		usecase.WithRetryBackoff(time.Microsecond, time.Millisecond),
		usecase.WithRetrier(postgres.NewRetrier(zerolog.Nop())),
	}
	engineOpts = append(engineOpts, opts...)

	engine := usecase.NewEngine(store, registry, journal, idGen, engineOpts...)
	reconciliation := usecase.NewReconciliationUseCase(registry, journal, nil)

	return &TestLedger{
		Store:          store,
		Registry:       registry,
		Journal:        journal,
		Engine:         engine,
		Reconciliation: reconciliation,
		t:              t,
	}
}

// OpenAccount opens an account with the given type and initial balance.
func (l *TestLedger) OpenAccount(ctx context.Context, accountType string, initial decimal.Decimal) *domain.Account {
	l.t.Helper()

	account, err := l.Engine.OpenAccount(ctx, usecase.OpenAccountInput{
		HolderID:       GenerateID(),
		HolderName:     "Test Holder",
		Type:           accountType,
		InitialBalance: initial,
	})
	if err != nil {
		l.t.Fatalf("failed to open test account: %v", err)
	}

	return account
}

// MustGetAccount fetches the current account state.
func (l *TestLedger) MustGetAccount(ctx context.Context, id string) *domain.Account {
	l.t.Helper()

	account, err := l.Registry.Get(ctx, id)
	if err != nil {
		l.t.Fatalf("failed to get account %s: %v", id, err)
	}

	return account
}

// AssertBalanceMatchesJournal checks the registry invariant that a balance
// always equals the sum of the account's journal entries.
func (l *TestLedger) AssertBalanceMatchesJournal(ctx context.Context, accountID string) {
	l.t.Helper()

	account := l.MustGetAccount(ctx, accountID)

	sum, err := l.Journal.SumByAccount(ctx, accountID)
	if err != nil {
		l.t.Fatalf("failed to sum entries for %s: %v", accountID, err)
	}

	if !account.Balance.Equal(sum) {
		l.t.Errorf("account %s balance %s does not match journal sum %s", accountID, account.Balance, sum)
	}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
