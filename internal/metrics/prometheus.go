package metrics

import (
	"github.com/arloliu/distboost/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	placementDuration prometheus.Histogram
	partitionCount    prometheus.Gauge
	workerCount       prometheus.Gauge

	tasksDispatched *prometheus.CounterVec
	taskDuration    *prometheus.HistogramVec
	trainingRounds  *prometheus.CounterVec
	trainingSeconds prometheus.Histogram

	predictDuration   *prometheus.HistogramVec
	predictPartitions prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "distboost" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "distboost"
	}

	factory := promauto(reg)

	c := &PrometheusCollector{
		placementDuration: factory.histogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "placement_duration_seconds",
			Help:      "Time to materialize and place all partitions of a job.",
			Buckets:   prometheus.DefBuckets,
		}),
		partitionCount: factory.gauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "partitions",
			Help:      "Partition count of the current training job.",
		}),
		workerCount: factory.gauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Participating worker count of the current training job.",
		}),
		tasksDispatched: factory.counterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_dispatched_total",
			Help:      "Training tasks submitted, by worker.",
		}, []string{"worker"}),
		taskDuration: factory.histogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Per-worker training task duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}, []string{"worker", "result"}),
		trainingRounds: factory.counterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_rounds_total",
			Help:      "Completed training rounds, by result.",
		}, []string{"result"}),
		trainingSeconds: factory.histogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "End-to-end training round duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}),
		predictDuration: factory.histogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "predict_duration_seconds",
			Help:      "End-to-end prediction fan-out duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"output"}),
		predictPartitions: factory.gauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predict_partitions",
			Help:      "Partition count of the last prediction fan-out.",
		}),
	}

	return c
}

// RecordPlacementDuration records the placement duration histogram.
func (c *PrometheusCollector) RecordPlacementDuration(seconds float64) {
	c.placementDuration.Observe(seconds)
}

// RecordPartitionCount sets the partition count gauge.
func (c *PrometheusCollector) RecordPartitionCount(count int) {
	c.partitionCount.Set(float64(count))
}

// RecordWorkerCount sets the worker count gauge.
func (c *PrometheusCollector) RecordWorkerCount(count int) {
	c.workerCount.Set(float64(count))
}

// RecordTaskDispatched increments the per-worker dispatch counter.
func (c *PrometheusCollector) RecordTaskDispatched(worker string) {
	c.tasksDispatched.WithLabelValues(worker).Inc()
}

// RecordTaskCompleted records the per-worker task duration histogram.
func (c *PrometheusCollector) RecordTaskCompleted(worker string, success bool, seconds float64) {
	c.taskDuration.WithLabelValues(worker, resultLabel(success)).Observe(seconds)
}

// RecordTrainingDuration records the round counter and duration histogram.
func (c *PrometheusCollector) RecordTrainingDuration(seconds float64, success bool) {
	c.trainingRounds.WithLabelValues(resultLabel(success)).Inc()
	c.trainingSeconds.Observe(seconds)
}

// RecordPredictDuration records the prediction fan-out duration histogram.
func (c *PrometheusCollector) RecordPredictDuration(seconds float64, proba bool) {
	output := "predict"
	if proba {
		output = "predict_proba"
	}
	c.predictDuration.WithLabelValues(output).Observe(seconds)
}

// RecordPredictPartitions sets the prediction partition count gauge.
func (c *PrometheusCollector) RecordPredictPartitions(count int) {
	c.predictPartitions.Set(float64(count))
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

// registerFactory registers collectors on construction, mirroring promauto
// without pulling in the extra package.
type registerFactory struct {
	reg prometheus.Registerer
}

func promauto(reg prometheus.Registerer) registerFactory {
	return registerFactory{reg: reg}
}

func (f registerFactory) histogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	f.reg.MustRegister(h)

	return h
}

func (f registerFactory) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	f.reg.MustRegister(h)

	return h
}

func (f registerFactory) gauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	f.reg.MustRegister(g)

	return g
}

func (f registerFactory) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.reg.MustRegister(c)

	return c
}
