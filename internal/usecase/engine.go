package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/infrastructure/metrics"
)

// Engine orchestrates the account registry and the transaction journal. Every
// operation runs as a single atomic unit of work: journal appends and the
// compare-and-set balance update either all commit or none do. Version
// conflicts abort the unit of work and are retried with backoff up to a
// bounded attempt count.
type Engine struct {
	txManager TransactionManager
	registry  *Registry
	journal   *Journal
	idGen     IDGenerator
	corrGen   func() string

	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         zerolog.Logger
	metrics        *metrics.Metrics
	retrier        Retrier
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithMaxCommitAttempts bounds the optimistic retry loop.
func WithMaxCommitAttempts(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithRetryBackoff sets the pause range between commit attempts.
func WithRetryBackoff(initial, max time.Duration) EngineOption {
	return func(e *Engine) {
		e.initialBackoff = initial
		e.maxBackoff = max
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics attaches Prometheus metrics to the engine.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithRetrier wraps every commit attempt in a retrier for transient store
// errors. Version conflicts are never the retrier's concern; the engine's own
// bounded loop handles those.
func WithRetrier(r Retrier) EngineOption {
	return func(e *Engine) {
		e.retrier = r
	}
}

// WithCorrelationIDs overrides the transfer correlation ID source.
func WithCorrelationIDs(gen func() string) EngineOption {
	return func(e *Engine) {
		e.corrGen = gen
	}
}

// NewEngine creates a new Engine.
func NewEngine(txManager TransactionManager, registry *Registry, journal *Journal, idGen IDGenerator, opts ...EngineOption) *Engine {
	e := &Engine{
		txManager:      txManager,
		registry:       registry,
		journal:        journal,
		idGen:          idGen,
		corrGen:        uuid.NewString,
		maxAttempts:    DefaultMaxCommitAttempts,
		initialBackoff: DefaultRetryInitialBackoff,
		maxBackoff:     DefaultRetryMaxBackoff,
		logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	HolderID       string
	HolderName     string
	Type           string
	InitialBalance decimal.Decimal
}

// OpenAccount creates an account and, for a positive initial balance,
// journals the opening deposit in the same unit of work so the balance always
// equals the sum of the account's entries.
func (e *Engine) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	var account *domain.Account

	err := e.commitOnce(ctx, func(tx Transaction) error {
		var err error
		account, err = e.registry.Create(ctx, tx, CreateAccountInput{
			HolderID:       input.HolderID,
			HolderName:     input.HolderName,
			Type:           input.Type,
			InitialBalance: input.InitialBalance,
		})
		if err != nil {
			return err
		}

		if input.InitialBalance.IsPositive() {
			opening := &domain.Entry{
				ID:               e.idGen.Generate(),
				AccountID:        account.ID,
				Kind:             domain.EntryKindDeposit,
				Amount:           input.InitialBalance,
				ResultingBalance: input.InitialBalance,
				AccountVersion:   account.Version,
				CreatedAt:        account.CreatedAt,
			}

			if _, err := e.journal.Append(ctx, tx, opening); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, e.storeErr(err)
	}

	if e.metrics != nil {
		e.metrics.AccountsOpened.Inc()
		if input.InitialBalance.IsPositive() {
			e.metrics.EntriesAppended.Inc()
		}
	}

	e.logger.Info().
		Str("account_id", account.ID).
		Str("type", string(account.Type)).
		Str("initial_balance", account.Balance.String()).
		Msg("account opened")

	return account, nil
}

// DepositInput represents input for a deposit. EntryID is optional: callers
// may pre-generate it to make resubmission idempotent.
type DepositInput struct {
	AccountID string
	Amount    decimal.Decimal
	EntryID   string
}

// Deposit credits the account and journals a deposit entry.
func (e *Engine) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if entry, done, err := e.replayedEntry(ctx, input.EntryID, input.AccountID, domain.EntryKindDeposit, input.Amount); done {
		return entry, err
	}

	start := time.Now()

	entry, err := e.commitEntry(ctx, input.AccountID, input.EntryID, func(account *domain.Account) (domain.EntryKind, decimal.Decimal, error) {
		return domain.EntryKindDeposit, input.Amount, nil
	})
	if err != nil {
		// A concurrent duplicate may have journaled the entry between the
		// replay pre-check and the commit; look again before failing.
		if entry, ok := e.lostDuplicateRace(ctx, err, input.EntryID, input.AccountID, domain.EntryKindDeposit, input.Amount); ok {
			return entry, nil
		}

		e.observeError("deposit", err)
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.DepositsCommitted.Inc()
		e.metrics.EntriesAppended.Inc()
		e.metrics.OperationDuration.WithLabelValues("deposit").Observe(time.Since(start).Seconds())
	}

	return entry, nil
}

// WithdrawInput represents input for a withdrawal. EntryID is optional, as
// for deposits.
type WithdrawInput struct {
	AccountID string
	Amount    decimal.Decimal
	EntryID   string
}

// Withdraw debits the account and journals a withdrawal entry. The
// minimum-balance check is re-evaluated against the freshly read balance on
// every attempt.
func (e *Engine) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if entry, done, err := e.replayedEntry(ctx, input.EntryID, input.AccountID, domain.EntryKindWithdrawal, input.Amount.Neg()); done {
		return entry, err
	}

	start := time.Now()

	entry, err := e.commitEntry(ctx, input.AccountID, input.EntryID, func(account *domain.Account) (domain.EntryKind, decimal.Decimal, error) {
		if err := account.ValidateDebit(input.Amount, e.registry.Policy()); err != nil {
			return "", decimal.Zero, err
		}

		return domain.EntryKindWithdrawal, input.Amount.Neg(), nil
	})
	if err != nil {
		if entry, ok := e.lostDuplicateRace(ctx, err, input.EntryID, input.AccountID, domain.EntryKindWithdrawal, input.Amount.Neg()); ok {
			return entry, nil
		}

		e.observeError("withdraw", err)
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.WithdrawalsCommitted.Inc()
		e.metrics.EntriesAppended.Inc()
		e.metrics.OperationDuration.WithLabelValues("withdraw").Observe(time.Since(start).Seconds())
	}

	return entry, nil
}

// commitEntry runs the optimistic read-compute-append-commit cycle for a
// single-account operation. plan inspects the freshly read account and
// returns the entry kind and signed amount to journal.
func (e *Engine) commitEntry(ctx context.Context, accountID, entryID string, plan func(*domain.Account) (domain.EntryKind, decimal.Decimal, error)) (*domain.Entry, error) {
	var result *domain.Entry

	err := e.retryCommit(ctx, func(tx Transaction) error {
		account, err := e.registry.GetTx(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if account.IsClosed() {
			return domain.ErrAccountClosed
		}

		kind, signed, err := plan(account)
		if err != nil {
			return err
		}

		entry := &domain.Entry{
			ID:               entryID,
			AccountID:        account.ID,
			Kind:             kind,
			Amount:           signed,
			ResultingBalance: account.Balance.Add(signed),
			AccountVersion:   account.Version + 1,
			CreatedAt:        time.Now().UTC(),
		}
		if entry.ID == "" {
			entry.ID = e.idGen.Generate()
		}

		if _, err := e.journal.Append(ctx, tx, entry); err != nil {
			return err
		}

		if err := e.registry.CompareAndSetBalance(ctx, tx, account.ID, account.Version, entry.ResultingBalance); err != nil {
			return err
		}

		result = entry

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TransferInput represents input for a transfer between two accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// TransferResult holds the two journal legs of a committed transfer.
type TransferResult struct {
	CorrelationID string
	OutEntry      *domain.Entry
	InEntry       *domain.Entry
}

// Transfer atomically debits one account and credits another. Either both
// balance updates and both journal legs persist, or none do. Accounts are
// always read and updated in ascending ID order so two concurrent transfers
// over the same pair in opposite directions cannot deadlock.
func (e *Engine) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	correlationID := e.corrGen()
	start := time.Now()

	var result *TransferResult

	err := e.retryCommit(ctx, func(tx Transaction) error {
		ordered := []string{input.FromAccountID, input.ToAccountID}
		sort.Strings(ordered)

		accounts := make(map[string]*domain.Account, 2)
		for _, id := range ordered {
			account, err := e.registry.GetTx(ctx, tx, id)
			if err != nil {
				return err
			}

			accounts[id] = account
		}

		from := accounts[input.FromAccountID]
		to := accounts[input.ToAccountID]

		if from.IsClosed() || to.IsClosed() {
			return domain.ErrAccountClosed
		}

		if err := from.ValidateDebit(input.Amount, e.registry.Policy()); err != nil {
			return err
		}

		now := time.Now().UTC()

		outEntry := &domain.Entry{
			ID:               e.idGen.Generate(),
			AccountID:        from.ID,
			Kind:             domain.EntryKindTransferOut,
			Amount:           input.Amount.Neg(),
			ResultingBalance: from.ApplyDebit(input.Amount),
			AccountVersion:   from.Version + 1,
			CorrelationID:    correlationID,
			CreatedAt:        now,
		}

		inEntry := &domain.Entry{
			ID:               e.idGen.Generate(),
			AccountID:        to.ID,
			Kind:             domain.EntryKindTransferIn,
			Amount:           input.Amount,
			ResultingBalance: to.ApplyCredit(input.Amount),
			AccountVersion:   to.Version + 1,
			CorrelationID:    correlationID,
			CreatedAt:        now,
		}

		if _, err := e.journal.Append(ctx, tx, outEntry); err != nil {
			return err
		}

		if _, err := e.journal.Append(ctx, tx, inEntry); err != nil {
			return err
		}

		// Balance updates follow the same ascending order as the reads.
		entryFor := map[string]*domain.Entry{from.ID: outEntry, to.ID: inEntry}
		for _, id := range ordered {
			account := accounts[id]
			if err := e.registry.CompareAndSetBalance(ctx, tx, id, account.Version, entryFor[id].ResultingBalance); err != nil {
				return err
			}
		}

		result = &TransferResult{
			CorrelationID: correlationID,
			OutEntry:      outEntry,
			InEntry:       inEntry,
		}

		return nil
	})
	if err != nil {
		e.observeError("transfer", err)
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.TransfersCommitted.Inc()
		e.metrics.EntriesAppended.Add(2)
		e.metrics.OperationDuration.WithLabelValues("transfer").Observe(time.Since(start).Seconds())
	}

	e.logger.Info().
		Str("from", input.FromAccountID).
		Str("to", input.ToAccountID).
		Str("amount", input.Amount.String()).
		Str("correlation_id", correlationID).
		Msg("transfer committed")

	return result, nil
}

// HistoryInput represents input for reading an account's history.
type HistoryInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetHistory returns the account's journal in chronological order.
func (e *Engine) GetHistory(ctx context.Context, input HistoryInput) ([]*domain.Entry, error) {
	if _, err := e.registry.Get(ctx, input.AccountID); err != nil {
		return nil, e.storeErr(err)
	}

	entries, err := e.journal.ListByAccount(ctx, ListEntriesInput{
		AccountID: input.AccountID,
		Limit:     input.Limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, e.storeErr(err)
	}

	return entries, nil
}

// replayedEntry looks up a caller-supplied entry ID and, when one is already
// journaled with matching content, returns the recorded outcome so the
// resubmission has no additional effect. A journaled entry that does not
// match the resubmitted operation is rejected.
func (e *Engine) replayedEntry(ctx context.Context, entryID, accountID string, kind domain.EntryKind, signed decimal.Decimal) (*domain.Entry, bool, error) {
	if entryID == "" {
		return nil, false, nil
	}

	existing, err := e.journal.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return nil, false, nil
		}

		return nil, true, e.storeErr(err)
	}

	if existing.AccountID != accountID || existing.Kind != kind || !existing.Amount.Equal(signed) {
		return nil, true, domain.ErrInvalidEntry
	}

	return existing, true, nil
}

// lostDuplicateRace handles a duplicate submission that raced past the replay
// pre-check: the winner journaled the entry first, so the loser's append
// recomputed a different balance snapshot and failed the content comparison.
// When the journaled entry matches the operation itself, the loser gets the
// recorded outcome instead of an error.
func (e *Engine) lostDuplicateRace(ctx context.Context, commitErr error, entryID, accountID string, kind domain.EntryKind, signed decimal.Decimal) (*domain.Entry, bool) {
	if entryID == "" || !errors.Is(commitErr, domain.ErrInvalidEntry) {
		return nil, false
	}

	entry, done, err := e.replayedEntry(ctx, entryID, accountID, kind, signed)
	if !done || err != nil {
		return nil, false
	}

	return entry, true
}

// observeError records a failed operation by error class.
func (e *Engine) observeError(op string, err error) {
	if e.metrics == nil {
		return
	}

	e.metrics.OperationErrors.WithLabelValues(op, errorLabel(err)).Inc()
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrAccountClosed):
		return "account_closed"
	case errors.Is(err, domain.ErrConcurrentUpdateExceeded):
		return "retry_exhausted"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrInvalidEntry):
		return "invalid_entry"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "other"
	}
}

// retryCommit runs op inside a store transaction, retrying with exponential
// backoff while the commit loses the version race. Any other failure aborts
// immediately.
func (e *Engine) retryCommit(ctx context.Context, op func(Transaction) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.initialBackoff
	b.MaxInterval = e.maxBackoff
	b.MaxElapsedTime = 0

	attempts := 0

	return backoff.Retry(func() error {
		attempts++

		err := e.commitOnce(ctx, op)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrVersionConflict) {
			return backoff.Permanent(e.storeErr(err))
		}

		if e.metrics != nil {
			e.metrics.VersionConflicts.Inc()
		}

		if attempts >= e.maxAttempts {
			if e.metrics != nil {
				e.metrics.RetryExhaustions.Inc()
			}

			return backoff.Permanent(fmt.Errorf("%w: gave up after %d attempts", domain.ErrConcurrentUpdateExceeded, attempts))
		}

		e.logger.Debug().
			Int("attempt", attempts).
			Msg("version conflict, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// commitOnce is a single commit attempt. With a retrier configured, transient
// store errors (deadlocks, serialization failures) are retried inside the
// attempt before the version-conflict loop ever sees them.
func (e *Engine) commitOnce(ctx context.Context, op func(Transaction) error) error {
	if e.retrier == nil {
		return e.runInTx(ctx, op)
	}

	return e.retrier.Retry(ctx, func() error {
		return e.runInTx(ctx, op)
	})
}

func (e *Engine) runInTx(ctx context.Context, op func(Transaction) error) error {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := op(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ledgerErrs are the error kinds callers are expected to branch on. Anything
// else coming back from the store is surfaced as ErrStoreUnavailable.
var ledgerErrs = []error{
	domain.ErrAccountNotFound,
	domain.ErrAccountClosed,
	domain.ErrInvalidAccountType,
	domain.ErrInvalidStatusTransition,
	domain.ErrInsufficientFunds,
	domain.ErrHolderNotFound,
	domain.ErrInvalidAmount,
	domain.ErrAmountTooLarge,
	domain.ErrInvalidHolderName,
	domain.ErrSameAccount,
	domain.ErrInvalidEntry,
	domain.ErrEntryNotFound,
	domain.ErrVersionConflict,
	domain.ErrConcurrentUpdateExceeded,
}

func (e *Engine) storeErr(err error) error {
	if err == nil {
		return nil
	}

	for _, known := range ledgerErrs {
		if errors.Is(err, known) {
			return err
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
