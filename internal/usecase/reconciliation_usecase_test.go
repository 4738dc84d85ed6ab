package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
	"github.com/mrnovoice/bankledger/internal/usecase/mocks"
)

func TestReconciliation_BalancedAccount(t *testing.T) {
	accounts := mocks.NewMockAccountStore()
	entries := mocks.NewMockEntryStore()
	ctx := context.Background()

	accounts.Seed(&domain.Account{
		ID:      "acc-1",
		Status:  domain.AccountStatusActive,
		Balance: decimal.NewFromInt(70),
	})

	tx := &mocks.MockTransaction{}
	entries.Append(ctx, tx, &domain.Entry{ID: "e-1", AccountID: "acc-1", Kind: domain.EntryKindDeposit, Amount: decimal.NewFromInt(100)})
	entries.Append(ctx, tx, &domain.Entry{ID: "e-2", AccountID: "acc-1", Kind: domain.EntryKindWithdrawal, Amount: decimal.NewFromInt(-30)})

	registry := newTestRegistry(accounts)
	uc := usecase.NewReconciliationUseCase(registry, usecase.NewJournal(entries), nil)

	result, err := uc.ReconcileAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsReconciled {
		t.Errorf("expected account to reconcile, difference %s", result.Difference)
	}
	if !result.ReplayedBalance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected replayed balance 70, got %s", result.ReplayedBalance)
	}
}

func TestReconciliation_DetectsDrift(t *testing.T) {
	accounts := mocks.NewMockAccountStore()
	entries := mocks.NewMockEntryStore()
	ctx := context.Background()

	accounts.Seed(&domain.Account{
		ID:      "acc-1",
		Status:  domain.AccountStatusActive,
		Balance: decimal.NewFromInt(100),
	})
	entries.Append(ctx, &mocks.MockTransaction{}, &domain.Entry{
		ID: "e-1", AccountID: "acc-1", Kind: domain.EntryKindDeposit, Amount: decimal.NewFromInt(60),
	})

	registry := newTestRegistry(accounts)
	uc := usecase.NewReconciliationUseCase(registry, usecase.NewJournal(entries), nil)

	result, err := uc.ReconcileAccount(ctx, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsReconciled {
		t.Error("expected drift to be detected")
	}
	if !result.Difference.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected difference 40, got %s", result.Difference)
	}

	report, err := uc.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalAccounts != 1 || report.ReconciledAccounts != 0 || len(report.Discrepancies) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}
