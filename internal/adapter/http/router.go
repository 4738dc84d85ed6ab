package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrnovoice/bankledger/internal/adapter/http/handler"
	"github.com/mrnovoice/bankledger/internal/adapter/http/middleware"
	"github.com/mrnovoice/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	HolderHandler         *handler.HolderHandler
	AccountHandler        *handler.AccountHandler
	LedgerHandler         *handler.LedgerHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Holders
		r.Route("/holders", func(r chi.Router) {
			r.Post("/", cfg.HolderHandler.Register)
			r.Get("/{id}", cfg.HolderHandler.Get)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Open)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Put("/{id}/status", cfg.AccountHandler.ChangeStatus)
			r.Post("/{id}/deposits", cfg.LedgerHandler.Deposit)
			r.Post("/{id}/withdrawals", cfg.LedgerHandler.Withdraw)
			r.Get("/{id}/entries", cfg.LedgerHandler.History)
			r.Get("/{id}/reconciliation", cfg.ReconciliationHandler.ReconcileAccount)
		})

		// Transfers
		r.Post("/transfers", cfg.LedgerHandler.Transfer)

		// Reconciliation
		r.Get("/reconciliation", cfg.ReconciliationHandler.ReconcileAll)
	})

	return r
}
