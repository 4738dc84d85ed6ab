package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// HolderResponse represents an account holder in API responses.
type HolderResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HolderFromDomain converts a domain holder to a response.
func HolderFromDomain(h *domain.Holder) *HolderResponse {
	return &HolderResponse{
		ID:        h.ID,
		FullName:  h.FullName,
		Email:     h.Email,
		Phone:     h.Phone,
		CreatedAt: h.CreatedAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string          `json:"id"`
	HolderID   string          `json:"holder_id"`
	HolderName string          `json:"holder_name"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Balance    decimal.Decimal `json:"balance"`
	Version    int64           `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		HolderID:   a.HolderID,
		HolderName: a.HolderName,
		Type:       string(a.Type),
		Status:     string(a.Status),
		Balance:    a.Balance,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a journal entry in API responses.
type EntryResponse struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	Kind             string          `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	AccountVersion   int64           `json:"account_version"`
	CorrelationID    string          `json:"correlation_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:               e.ID,
		AccountID:        e.AccountID,
		Kind:             string(e.Kind),
		Amount:           e.Amount,
		ResultingBalance: e.ResultingBalance,
		AccountVersion:   e.AccountVersion,
		CorrelationID:    e.CorrelationID,
		CreatedAt:        e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps a page of journal entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferResponse represents a committed transfer: the correlation ID and
// its two journal legs.
type TransferResponse struct {
	CorrelationID string         `json:"correlation_id"`
	OutEntry      *EntryResponse `json:"out_entry"`
	InEntry       *EntryResponse `json:"in_entry"`
}

// TransferFromResult converts a transfer result to a response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		CorrelationID: r.CorrelationID,
		OutEntry:      EntryFromDomain(r.OutEntry),
		InEntry:       EntryFromDomain(r.InEntry),
	}
}

// ReconciliationResponse represents a single-account reconciliation result.
type ReconciliationResponse struct {
	AccountID       string          `json:"account_id"`
	RecordedBalance decimal.Decimal `json:"recorded_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	IsReconciled    bool            `json:"is_reconciled"`
	CheckedAt       time.Time       `json:"checked_at"`
}

// ReconciliationFromResult converts a reconciliation result to a response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:       r.AccountID,
		RecordedBalance: r.RecordedBalance,
		ReplayedBalance: r.ReplayedBalance,
		Difference:      r.Difference,
		IsReconciled:    r.IsReconciled,
		CheckedAt:       r.CheckedAt,
	}
}

// ReconciliationReportResponse represents a ledger-wide reconciliation pass.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromResult converts a reconciliation report to a
// response.
func ReconciliationReportFromResult(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationFromResult(d)
	}

	return &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      discrepancies,
		CheckedAt:          r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
