package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateHolderName(t *testing.T) {
	if err := ValidateHolderName("Ada Lovelace"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateHolderName("  "); !errors.Is(err, ErrInvalidHolderName) {
		t.Errorf("expected ErrInvalidHolderName for blank name, got %v", err)
	}

	long := strings.Repeat("a", MaxHolderNameLength+1)
	if err := ValidateHolderName(long); !errors.Is(err, ErrInvalidHolderName) {
		t.Errorf("expected ErrInvalidHolderName for long name, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q to be valid, got %v", email, err)
		}
	}

	invalid := []string{"", "plainaddress", "@missing-local.com", "user@no-tld"}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+1 555 123 4567", "0712345678", "+44-20-7946-0958"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("expected %q to be valid, got %v", phone, err)
		}
	}

	invalid := []string{"", "12", "not-a-number"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("expected %q to be invalid", phone)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge := decimal.RequireFromString(MaxOperationAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults (50, 0), got (%d, %d)", limit, offset)
	}

	limit, offset = ValidatePagination(5000, 10)
	if limit != 1000 || offset != 10 {
		t.Errorf("expected capped limit (1000, 10), got (%d, %d)", limit, offset)
	}
}
