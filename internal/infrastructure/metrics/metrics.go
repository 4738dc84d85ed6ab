package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger operation metrics
	DepositsCommitted    prometheus.Counter
	WithdrawalsCommitted prometheus.Counter
	TransfersCommitted   prometheus.Counter
	OperationDuration    *prometheus.HistogramVec
	OperationErrors      *prometheus.CounterVec

	// Optimistic concurrency metrics
	VersionConflicts prometheus.Counter
	RetryExhaustions prometheus.Counter

	// Account metrics
	AccountsOpened  prometheus.Counter
	EntriesAppended prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns          prometheus.Counter
	ReconciliationDiscrepancies prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DepositsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_deposits_committed_total",
			Help: "Total number of committed deposits",
		}),
		WithdrawalsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_withdrawals_committed_total",
			Help: "Total number of committed withdrawals",
		}),
		TransfersCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_transfers_committed_total",
			Help: "Total number of committed transfers",
		}),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_operation_errors_total",
				Help: "Total number of ledger operation errors by type",
			},
			[]string{"operation", "error_type"},
		),

		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_version_conflicts_total",
			Help: "Total number of optimistic version conflicts",
		}),
		RetryExhaustions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_retry_exhaustions_total",
			Help: "Total number of operations abandoned after exhausting retries",
		}),

		AccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		EntriesAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_entries_appended_total",
			Help: "Total number of journal entries appended",
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_reconciliation_runs_total",
			Help: "Total number of reconciliation passes",
		}),
		ReconciliationDiscrepancies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_reconciliation_discrepancies_total",
			Help: "Total number of reconciliation discrepancies detected",
		}),
	}
}
