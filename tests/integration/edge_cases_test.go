package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
	"github.com/mrnovoice/bankledger/tests/testutil"
)

func TestWithdrawToExactFloor(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)
	account := ledger.OpenAccount(ctx, "savings", decimal.NewFromInt(75))

	// Draining the account exactly to the floor is allowed.
	entry, err := ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(75),
	})
	if err != nil {
		t.Fatalf("boundary withdrawal failed: %v", err)
	}

	if !entry.ResultingBalance.Equal(decimal.Zero) {
		t.Errorf("expected resulting balance 0, got %s", entry.ResultingBalance)
	}

	// One more cent is not.
	_, err = ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromFloat(0.01),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	ledger.AssertBalanceMatchesJournal(ctx, account.ID)
}

func TestCurrentAccountOverdraftFloor(t *testing.T) {
	ctx := context.Background()

	floor := decimal.NewFromInt(-100)
	ledger := testutil.NewTestLedgerWithPolicy(t, domain.BalancePolicy{CurrentFloor: floor})

	account := ledger.OpenAccount(ctx, "current", decimal.NewFromInt(50))

	// A current account may run negative down to the configured floor.
	entry, err := ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("overdraft withdrawal failed: %v", err)
	}

	if !entry.ResultingBalance.Equal(floor) {
		t.Errorf("expected resulting balance %s, got %s", floor, entry.ResultingBalance)
	}

	_, err = ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds below floor, got %v", err)
	}

	ledger.AssertBalanceMatchesJournal(ctx, account.ID)
}

func TestIdempotentDepositResubmission(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)
	account := ledger.OpenAccount(ctx, "savings", decimal.Zero)

	entryID := testutil.GenerateID()

	first, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(30),
		EntryID:   entryID,
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	// Resubmitting the same operation replays the recorded outcome.
	second, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(30),
		EntryID:   entryID,
	})
	if err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected replayed entry %s, got %s", first.ID, second.ID)
	}
	if !second.ResultingBalance.Equal(first.ResultingBalance) {
		t.Errorf("replayed entry changed resulting balance: %s vs %s", second.ResultingBalance, first.ResultingBalance)
	}

	// The balance is credited exactly once.
	final := ledger.MustGetAccount(ctx, account.ID)
	if !final.Balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected balance 30, got %s", final.Balance)
	}

	entries, err := ledger.Engine.GetHistory(ctx, usecase.HistoryInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single journal entry, got %d", len(entries))
	}

	// Reusing the entry ID for a different operation is rejected.
	_, err = ledger.Engine.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(99),
		EntryID:   entryID,
	})
	if !errors.Is(err, domain.ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for mismatched resubmission, got %v", err)
	}

	_, err = ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(30),
		EntryID:   entryID,
	})
	if !errors.Is(err, domain.ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for reused entry ID, got %v", err)
	}
}

func TestClosedAccountRejectsMutations(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)
	account := ledger.OpenAccount(ctx, "savings", decimal.NewFromInt(10))

	if _, err := ledger.Registry.ChangeStatus(ctx, account.ID, domain.AccountStatusClosed); err != nil {
		t.Fatalf("failed to close account: %v", err)
	}

	if _, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(5),
	}); !errors.Is(err, domain.ErrAccountClosed) {
		t.Fatalf("expected ErrAccountClosed on deposit, got %v", err)
	}

	if _, err := ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(5),
	}); !errors.Is(err, domain.ErrAccountClosed) {
		t.Fatalf("expected ErrAccountClosed on withdrawal, got %v", err)
	}

	// Reads still work.
	entries, err := ledger.Engine.GetHistory(ctx, usecase.HistoryInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("history on closed account failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected opening entry in history, got %d entries", len(entries))
	}

	// Closed is terminal.
	if _, err := ledger.Registry.ChangeStatus(ctx, account.ID, domain.AccountStatusActive); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition reopening, got %v", err)
	}
}

func TestInactiveAccountStillTransacts(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)
	account := ledger.OpenAccount(ctx, "savings", decimal.NewFromInt(10))

	if _, err := ledger.Registry.ChangeStatus(ctx, account.ID, domain.AccountStatusInactive); err != nil {
		t.Fatalf("failed to mark account inactive: %v", err)
	}

	// Inactive is a dormancy marker, not a freeze. Only closed accounts
	// reject money movement.
	if _, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{
		AccountID: account.ID,
		Amount:    decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("deposit to inactive account failed: %v", err)
	}

	final := ledger.MustGetAccount(ctx, account.ID)
	if !final.Balance.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected balance 15, got %s", final.Balance)
	}
}

func TestHistoryOrderingAndPagination(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)
	account := ledger.OpenAccount(ctx, "savings", decimal.Zero)

	for i := 1; i <= 5; i++ {
		if _, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(int64(i)),
		}); err != nil {
			t.Fatalf("deposit %d failed: %v", i, err)
		}
	}

	all, err := ledger.Engine.GetHistory(ctx, usecase.HistoryInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(all))
	}

	// Chronological order: resulting balances are strictly increasing.
	for i := 1; i < len(all); i++ {
		if !all[i].ResultingBalance.GreaterThan(all[i-1].ResultingBalance) {
			t.Errorf("history out of order at index %d: %s then %s", i, all[i-1].ResultingBalance, all[i].ResultingBalance)
		}
	}

	page, err := ledger.Engine.GetHistory(ctx, usecase.HistoryInput{
		AccountID: account.ID,
		Limit:     2,
		Offset:    2,
	})
	if err != nil {
		t.Fatalf("failed to read page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 entries on page, got %d", len(page))
	}
	if page[0].ID != all[2].ID || page[1].ID != all[3].ID {
		t.Errorf("page does not line up with full history")
	}

	_, err = ledger.Engine.GetHistory(ctx, usecase.HistoryInput{AccountID: testutil.GenerateID()})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestReconciliationCleanAfterTraffic(t *testing.T) {
	ctx := context.Background()

	ledger := testutil.NewTestLedger(t)

	a := ledger.OpenAccount(ctx, "savings", decimal.NewFromInt(200))
	b := ledger.OpenAccount(ctx, "savings", decimal.Zero)

	if _, err := ledger.Engine.Deposit(ctx, usecase.DepositInput{AccountID: b.ID, Amount: decimal.NewFromInt(40)}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := ledger.Engine.Withdraw(ctx, usecase.WithdrawInput{AccountID: a.ID, Amount: decimal.NewFromInt(25)}); err != nil {
		t.Fatalf("withdrawal failed: %v", err)
	}
	if _, err := ledger.Engine.Transfer(ctx, usecase.TransferInput{
		FromAccountID: a.ID,
		ToAccountID:   b.ID,
		Amount:        decimal.NewFromInt(60),
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	report, err := ledger.Reconciliation.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("reconciliation failed: %v", err)
	}

	if report.ReconciledAccounts != 2 {
		t.Errorf("expected 2 reconciled accounts, got %d", report.ReconciledAccounts)
	}
	if len(report.Discrepancies) != 0 {
		t.Errorf("expected no discrepancies, got %d", len(report.Discrepancies))
	}
}
