package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrnovoice/bankledger/internal/adapter/http/dto"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// ReconcileAccount reconciles a single account.
func (h *ReconciliationHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// ReconcileAll reconciles every account.
func (h *ReconciliationHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromResult(report))
}
