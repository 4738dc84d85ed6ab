package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies the core ledger invariant: an account's
// materialized balance equals the sum of the signed amounts of its journal
// entries.
type ReconciliationUseCase struct {
	registry *Registry
	journal  *Journal
	metrics  *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(registry *Registry, journal *Journal, metrics *metrics.Metrics) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		registry: registry,
		journal:  journal,
		metrics:  metrics,
	}
}

// ReconciliationResult represents the result of reconciling one account.
type ReconciliationResult struct {
	AccountID       string
	RecordedBalance decimal.Decimal
	ReplayedBalance decimal.Decimal
	Difference      decimal.Decimal
	IsReconciled    bool
	CheckedAt       time.Time
}

// ReconcileAccount replays the account's journal and compares the result with
// the materialized balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.registry.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	replayed, err := uc.journal.SumByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	diff := account.Balance.Sub(replayed)

	return &ReconciliationResult{
		AccountID:       accountID,
		RecordedBalance: account.Balance,
		ReplayedBalance: replayed,
		Difference:      diff,
		IsReconciled:    diff.IsZero(),
		CheckedAt:       time.Now().UTC(),
	}, nil
}

// ReconciliationReport represents a ledger-wide reconciliation pass.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// ReconcileAll reconciles every account and reports discrepancies.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) (*ReconciliationReport, error) {
	accounts, err := uc.registry.List(ctx, ListAccountsInput{Limit: 1000})
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		result, err := uc.ReconcileAccount(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
		}

		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDiscrepancies.Add(float64(len(report.Discrepancies)))
	}

	return report, nil
}
