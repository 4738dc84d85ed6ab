package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/usecase"
)

// RegisterHolderRequest represents a request to register an account holder.
type RegisterHolderRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterHolderRequest) ToUseCaseInput() usecase.RegisterHolderInput {
	return usecase.RegisterHolderInput{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
	}
}

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	HolderID       string          `json:"holder_id"`
	HolderName     string          `json:"holder_name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		HolderID:       r.HolderID,
		HolderName:     r.HolderName,
		Type:           r.Type,
		InitialBalance: r.InitialBalance,
	}
}

// ChangeStatusRequest represents a request to move an account through its
// lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// MoneyOperationRequest represents a deposit or withdrawal. EntryID is
// optional; clients that pre-generate it can safely resubmit the request.
type MoneyOperationRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	EntryID string          `json:"entry_id,omitempty"`
}

// CreateTransferRequest represents a request to transfer between accounts.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}
