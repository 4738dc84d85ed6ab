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

// HolderService defines the behavior needed by HolderHandler.
type HolderService interface {
	Register(ctx context.Context, input usecase.RegisterHolderInput) (*domain.Holder, error)
	Get(ctx context.Context, id string) (*domain.Holder, error)
}

// HolderHandler handles holder-related HTTP requests.
type HolderHandler struct {
	holderUC HolderService
}

// NewHolderHandler creates a new HolderHandler.
func NewHolderHandler(holderUC HolderService) *HolderHandler {
	return &HolderHandler{holderUC: holderUC}
}

// Register registers a new account holder.
func (h *HolderHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterHolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holder, err := h.holderUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register holder", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.HolderFromDomain(holder))
}

// Get retrieves a holder by ID.
func (h *HolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing holder ID", "")
		return
	}

	holder, err := h.holderUC.Get(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get holder", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HolderFromDomain(holder))
}
