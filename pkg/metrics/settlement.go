package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records payment confirmation outcomes.
type SettlementMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	stockout *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of payment settlement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_outcomes_total",
		Help: "Payment confirmations by outcome.",
	}, []string{"outcome"})
	stockout := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_stockouts_total",
		Help: "Settlements aborted because a stock line ran out.",
	}, []string{"category"})
	reg.MustRegister(duration, outcomes, stockout)
	return &SettlementMetrics{
		duration: duration,
		outcomes: outcomes,
		stockout: stockout,
	}
}

// Settlement outcome labels.
const (
	OutcomePaid              = "paid"
	OutcomeAlreadyPaid       = "already_paid"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeStatusConflict    = "status_conflict"
	OutcomeNotFound          = "not_found"
	OutcomeError             = "error"
)

// ObserveSettlement records one confirm attempt with its outcome and duration.
func (s *SettlementMetrics) ObserveSettlement(outcome string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	s.duration.WithLabelValues(label).Observe(duration.Seconds())
	s.outcomes.WithLabelValues(label).Inc()
}

// IncStockout increments the stockout counter for the named garment category.
func (s *SettlementMetrics) IncStockout(category string) {
	if s == nil || s.stockout == nil {
		return
	}
	s.stockout.WithLabelValues(normalizeLabel(category)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
