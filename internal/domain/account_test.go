package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		input       string
		expected    AccountType
		expectError bool
	}{
		{input: "savings", expected: AccountTypeSavings},
		{input: "current", expected: AccountTypeCurrent},
		{input: "checking", expectError: true},
		{input: "", expectError: true},
		{input: "Savings", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountType(tt.input)

			if tt.expectError {
				if !errors.Is(err, ErrInvalidAccountType) {
					t.Fatalf("expected ErrInvalidAccountType, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParseAccountStatus(t *testing.T) {
	tests := []struct {
		input       string
		expected    AccountStatus
		expectError bool
	}{
		{input: "active", expected: AccountStatusActive},
		{input: "inactive", expected: AccountStatusInactive},
		{input: "closed", expected: AccountStatusClosed},
		{input: "frozen", expectError: true},
		{input: "", expectError: true},
		{input: "Closed", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAccountStatus(tt.input)

			if tt.expectError {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAccountStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    AccountStatus
		to      AccountStatus
		allowed bool
	}{
		{name: "active to inactive", from: AccountStatusActive, to: AccountStatusInactive, allowed: true},
		{name: "active to closed", from: AccountStatusActive, to: AccountStatusClosed, allowed: true},
		{name: "inactive to closed", from: AccountStatusInactive, to: AccountStatusClosed, allowed: true},
		{name: "inactive to active", from: AccountStatusInactive, to: AccountStatusActive, allowed: false},
		{name: "closed to active", from: AccountStatusClosed, to: AccountStatusActive, allowed: false},
		{name: "closed to inactive", from: AccountStatusClosed, to: AccountStatusInactive, allowed: false},
		{name: "active to active", from: AccountStatusActive, to: AccountStatusActive, allowed: false},
		{name: "unknown status", from: AccountStatus("frozen"), to: AccountStatusClosed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("expected %v, got %v", tt.allowed, got)
			}
		})
	}
}

func TestAccount_ValidateDebit(t *testing.T) {
	overdraft := BalancePolicy{CurrentFloor: decimal.NewFromInt(-500)}

	tests := []struct {
		name        string
		accountType AccountType
		balance     decimal.Decimal
		amount      decimal.Decimal
		policy      BalancePolicy
		expectError bool
	}{
		{
			name:        "savings - debit less than balance",
			accountType: AccountTypeSavings,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(50),
		},
		{
			name:        "savings - debit exact balance",
			accountType: AccountTypeSavings,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(100),
		},
		{
			name:        "savings - debit more than balance",
			accountType: AccountTypeSavings,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "savings - one cent over balance",
			accountType: AccountTypeSavings,
			balance:     decimal.RequireFromString("100.00"),
			amount:      decimal.RequireFromString("100.01"),
			expectError: true,
		},
		{
			name:        "current - overdraft within floor",
			accountType: AccountTypeCurrent,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(300),
			policy:      overdraft,
		},
		{
			name:        "current - debit to exact floor",
			accountType: AccountTypeCurrent,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(600),
			policy:      overdraft,
		},
		{
			name:        "current - debit below floor",
			accountType: AccountTypeCurrent,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(601),
			policy:      overdraft,
			expectError: true,
		},
		{
			name:        "current - zero floor behaves like savings",
			accountType: AccountTypeCurrent,
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(101),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{
				Type:    tt.accountType,
				Balance: tt.balance,
			}

			err := acc.ValidateDebit(tt.amount, tt.policy)

			if tt.expectError && !errors.Is(err, ErrInsufficientFunds) {
				t.Errorf("expected ErrInsufficientFunds, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyDebitCredit(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}

	if got := acc.ApplyDebit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", got)
	}

	if got := acc.ApplyCredit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected 130, got %s", got)
	}
}

func TestAccount_IsClosed(t *testing.T) {
	if (&Account{Status: AccountStatusActive}).IsClosed() {
		t.Error("active account reported closed")
	}

	if (&Account{Status: AccountStatusInactive}).IsClosed() {
		t.Error("inactive account reported closed")
	}

	if !(&Account{Status: AccountStatusClosed}).IsClosed() {
		t.Error("closed account not reported closed")
	}
}
