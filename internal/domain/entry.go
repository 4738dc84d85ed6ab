package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind classifies a journal entry.
type EntryKind string

const (
	EntryKindDeposit     EntryKind = "deposit"
	EntryKindWithdrawal  EntryKind = "withdrawal"
	EntryKindTransferOut EntryKind = "transfer_out"
	EntryKindTransferIn  EntryKind = "transfer_in"
)

// IsValid reports whether k is a recognized entry kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDeposit, EntryKindWithdrawal, EntryKindTransferOut, EntryKindTransferIn:
		return true
	default:
		return false
	}
}

// credits reports whether the kind increases the account balance.
func (k EntryKind) credits() bool {
	return k == EntryKindDeposit || k == EntryKindTransferIn
}

// Entry is a single immutable journal record. Amount is signed: credits are
// positive, debits negative. ResultingBalance snapshots the account balance
// after the entry, and AccountVersion is the account version the entry
// committed at. The two transfer legs share a CorrelationID.
type Entry struct {
	ID               string
	AccountID        string
	Kind             EntryKind
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	AccountVersion   int64
	CorrelationID    string
	CreatedAt        time.Time
}

// Validate checks the entry is well formed before it is journaled.
func (e *Entry) Validate() error {
	if !e.Kind.IsValid() {
		return ErrInvalidEntry
	}

	if e.Amount.IsZero() {
		return ErrInvalidEntry
	}

	if e.AccountID == "" {
		return ErrInvalidEntry
	}

	// Sign must agree with the kind.
	if e.Kind.credits() != e.Amount.IsPositive() {
		return ErrInvalidEntry
	}

	if e.Kind == EntryKindTransferOut || e.Kind == EntryKindTransferIn {
		if e.CorrelationID == "" {
			return ErrInvalidEntry
		}
	}

	return nil
}

// SameContent reports whether two entries are identical in every field that
// matters for idempotent appends.
func (e *Entry) SameContent(other *Entry) bool {
	return e.ID == other.ID &&
		e.AccountID == other.AccountID &&
		e.Kind == other.Kind &&
		e.Amount.Equal(other.Amount) &&
		e.ResultingBalance.Equal(other.ResultingBalance) &&
		e.CorrelationID == other.CorrelationID
}
