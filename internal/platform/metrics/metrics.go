package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconciliations counts engine operations by operation and result. The
// operation label is one of approve, reject, edit_views, delete; result is
// ok or error.
var Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clipledger",
	Name:      "reconciliations_total",
	Help:      "Clip reconciliation operations processed.",
}, []string{"operation", "result"})

// LedgerClamps counts ledger writes where a total would have gone negative
// and was floored at zero.
var LedgerClamps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipledger",
	Name:      "ledger_clamps_total",
	Help:      "Creator ledger deltas clamped at zero.",
})

func ObserveReconciliation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Reconciliations.WithLabelValues(operation, result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
