package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountClosed           = errors.New("account is closed")
	ErrInvalidAccountType      = errors.New("invalid account type")
	ErrInvalidStatusTransition = errors.New("invalid account status transition")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrHolderNotFound          = errors.New("holder not found")

	// Operation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameAccount   = errors.New("cannot transfer to same account")
	ErrInvalidEntry  = errors.New("invalid journal entry")
	ErrEntryNotFound = errors.New("journal entry not found")

	// Concurrency errors. Version conflicts are retried inside the engine;
	// only retry exhaustion is surfaced to callers.
	ErrVersionConflict          = errors.New("account version conflict")
	ErrConcurrentUpdateExceeded = errors.New("concurrent update retries exhausted")

	// ErrStoreUnavailable wraps any store-level I/O failure.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)
