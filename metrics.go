package distboost

import (
	"github.com/arloliu/distboost/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// NewPrometheusMetrics creates a Prometheus-backed metrics collector suitable
// for WithMetrics.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "distboost" if empty)
//
// Returns:
//   - MetricsCollector: Collector registering its metrics on construction
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
