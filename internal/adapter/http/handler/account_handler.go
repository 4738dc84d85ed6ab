package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrnovoice/bankledger/internal/adapter/http/dto"
	"github.com/mrnovoice/bankledger/internal/domain"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// AccountOpener opens new accounts through the ledger engine so the opening
// deposit is journaled atomically with the account row.
type AccountOpener interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
}

// AccountRegistry defines the registry behavior needed by AccountHandler.
type AccountRegistry interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ChangeStatus(ctx context.Context, id string, next domain.AccountStatus) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	opener   AccountOpener
	registry AccountRegistry
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(opener AccountOpener, registry AccountRegistry) *AccountHandler {
	return &AccountHandler{
		opener:   opener,
		registry: registry,
	}
}

// Open opens a new account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.opener.OpenAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.registry.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.registry.List(r.Context(), usecase.ListAccountsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// ChangeStatus moves an account through its lifecycle.
func (h *AccountHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, err := domain.ParseAccountStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid status", req.Status)
		return
	}

	account, err := h.registry.ChangeStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to change account status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
