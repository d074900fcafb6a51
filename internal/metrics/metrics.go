package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	reportsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_reports_submitted_total",
			Help: "Total number of processed report submissions",
		},
		[]string{"sanction_applied"},
	)

	sanctionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_sanctions_applied_total",
			Help: "Total number of sanctions applied, by kind",
		},
		[]string{"kind"},
	)

	reconcilerPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_reconciler_passes_total",
			Help: "Total number of completed reconciliation passes",
		},
	)

	sanctionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_sanctions_expired_total",
			Help: "Total number of sanctions expired by the reconciler",
		},
	)
)

// RecordReport records one processed submission.
func RecordReport(sanctionApplied bool, kind string) {
	applied := "false"
	if sanctionApplied {
		applied = "true"
		sanctionsApplied.WithLabelValues(kind).Inc()
	}
	reportsSubmitted.WithLabelValues(applied).Inc()
}

// RecordReconcilerPass records one completed pass.
func RecordReconcilerPass(expired int64) {
	reconcilerPasses.Inc()
	sanctionsExpired.Add(float64(expired))
}

// Serve exposes /metrics on its own listener so the scrape endpoint stays
// off the public API port.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			slog.Error("metrics listener failed", "error", err)
		}
	}()
}
