package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		entry       Entry
		expectError bool
	}{
		{
			name: "valid deposit",
			entry: Entry{
				ID:        "e-1",
				AccountID: "acc-1",
				Kind:      EntryKindDeposit,
				Amount:    decimal.NewFromInt(100),
			},
		},
		{
			name: "valid withdrawal",
			entry: Entry{
				ID:        "e-2",
				AccountID: "acc-1",
				Kind:      EntryKindWithdrawal,
				Amount:    decimal.NewFromInt(-40),
			},
		},
		{
			name: "valid transfer legs need correlation",
			entry: Entry{
				ID:            "e-3",
				AccountID:     "acc-1",
				Kind:          EntryKindTransferOut,
				Amount:        decimal.NewFromInt(-40),
				CorrelationID: "corr-1",
			},
		},
		{
			name: "zero amount",
			entry: Entry{
				ID:        "e-4",
				AccountID: "acc-1",
				Kind:      EntryKindDeposit,
				Amount:    decimal.Zero,
			},
			expectError: true,
		},
		{
			name: "unrecognized kind",
			entry: Entry{
				ID:        "e-5",
				AccountID: "acc-1",
				Kind:      EntryKind("refund"),
				Amount:    decimal.NewFromInt(10),
			},
			expectError: true,
		},
		{
			name: "deposit with negative amount",
			entry: Entry{
				ID:        "e-6",
				AccountID: "acc-1",
				Kind:      EntryKindDeposit,
				Amount:    decimal.NewFromInt(-10),
			},
			expectError: true,
		},
		{
			name: "withdrawal with positive amount",
			entry: Entry{
				ID:        "e-7",
				AccountID: "acc-1",
				Kind:      EntryKindWithdrawal,
				Amount:    decimal.NewFromInt(10),
			},
			expectError: true,
		},
		{
			name: "transfer leg without correlation",
			entry: Entry{
				ID:        "e-8",
				AccountID: "acc-1",
				Kind:      EntryKindTransferIn,
				Amount:    decimal.NewFromInt(40),
			},
			expectError: true,
		},
		{
			name: "missing account",
			entry: Entry{
				ID:     "e-9",
				Kind:   EntryKindDeposit,
				Amount: decimal.NewFromInt(10),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()

			if tt.expectError && !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("expected ErrInvalidEntry, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestEntry_SameContent(t *testing.T) {
	base := Entry{
		ID:               "e-1",
		AccountID:        "acc-1",
		Kind:             EntryKindDeposit,
		Amount:           decimal.NewFromInt(100),
		ResultingBalance: decimal.NewFromInt(100),
	}

	same := base
	if !base.SameContent(&same) {
		t.Error("identical entries reported different")
	}

	differentAmount := base
	differentAmount.Amount = decimal.NewFromInt(200)
	if base.SameContent(&differentAmount) {
		t.Error("entries with different amounts reported same")
	}

	differentKind := base
	differentKind.Kind = EntryKindWithdrawal
	if base.SameContent(&differentKind) {
		t.Error("entries with different kinds reported same")
	}
}
