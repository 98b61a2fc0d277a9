// Package metrics exposes Prometheus counters for settlement outcomes.
// PartialSettlements in particular is the operator alarm: every increment
// means funds moved on the ledger without matching bookkeeping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PurchaseAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_purchase_attempts_total",
		Help: "Purchase settlements started.",
	})
	PurchaseCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_purchase_completed_total",
		Help: "Purchase settlements fully completed.",
	})
	PartialSettlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_partial_total",
		Help: "Settlements where the ledger succeeded but a later step failed; requires manual reconciliation.",
	}, []string{"stage"})
	EscrowReleases = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_escrow_releases_total",
		Help: "Escrows released after payment confirmation.",
	})
	DefaultsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_defaults_swept_total",
		Help: "Funded invoices moved to defaulted by the sweep.",
	})
)
