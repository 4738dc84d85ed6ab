package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the balance policy applied to an account.
type AccountType string

const (
	AccountTypeSavings AccountType = "savings"
	AccountTypeCurrent AccountType = "current"
)

// ParseAccountType validates and normalizes an account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeSavings:
		return AccountTypeSavings, nil
	case AccountTypeCurrent:
		return AccountTypeCurrent, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusClosed   AccountStatus = "closed"
)

// ParseAccountStatus validates and normalizes an account status string.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case AccountStatusActive:
		return AccountStatusActive, nil
	case AccountStatusInactive:
		return AccountStatusInactive, nil
	case AccountStatusClosed:
		return AccountStatusClosed, nil
	default:
		return "", ErrInvalidStatusTransition
	}
}

// statusRank orders lifecycle states. Transitions only move forward.
var statusRank = map[AccountStatus]int{
	AccountStatusActive:   0,
	AccountStatusInactive: 1,
	AccountStatusClosed:   2,
}

// CanTransitionTo reports whether moving from s to next is a legal
// one-directional lifecycle step.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}

	to, ok := statusRank[next]
	if !ok {
		return false
	}

	return to > from
}

// Account represents a ledger account that can hold a balance.
//
// Balance is the materialized sum of all journal entries referencing the
// account. Version increases with every committed balance change and is the
// optimistic-concurrency token for compare-and-set updates.
type Account struct {
	ID         string
	HolderID   string
	HolderName string
	Type       AccountType
	Status     AccountStatus
	Balance    decimal.Decimal
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BalancePolicy configures the minimum balance an account may hold.
type BalancePolicy struct {
	// CurrentFloor is the lowest balance a current account may reach.
	// Zero or negative; negative values grant an overdraft allowance.
	CurrentFloor decimal.Decimal
}

// Floor returns the minimum balance for the given account type.
// Savings accounts never go below zero.
func (p BalancePolicy) Floor(t AccountType) decimal.Decimal {
	if t == AccountTypeCurrent {
		return p.CurrentFloor
	}

	return decimal.Zero
}

// ValidateDebit checks whether debiting amount would take the account below
// its minimum balance under the given policy.
func (a *Account) ValidateDebit(amount decimal.Decimal, policy BalancePolicy) error {
	newBalance := a.Balance.Sub(amount)
	if newBalance.LessThan(policy.Floor(a.Type)) {
		return ErrInsufficientFunds
	}

	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// IsClosed reports whether the account accepts no further mutations.
func (a *Account) IsClosed() bool {
	return a.Status == AccountStatusClosed
}
