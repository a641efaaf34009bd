// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/distboost/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PlacementMetrics implementation

// RecordPlacementDuration discards the placement duration metric.
func (n *NopMetrics) RecordPlacementDuration(_ /* seconds */ float64) {
	// No-op
}

// RecordPartitionCount discards the partition count metric.
func (n *NopMetrics) RecordPartitionCount(_ /* count */ int) {
	// No-op
}

// RecordWorkerCount discards the worker count metric.
func (n *NopMetrics) RecordWorkerCount(_ /* count */ int) {
	// No-op
}

// DispatchMetrics implementation

// RecordTaskDispatched discards the task dispatch counter.
func (n *NopMetrics) RecordTaskDispatched(_ /* worker */ string) {
	// No-op
}

// RecordTaskCompleted discards the task completion metric.
func (n *NopMetrics) RecordTaskCompleted(_ /* worker */ string, _ /* success */ bool, _ /* seconds */ float64) {
	// No-op
}

// RecordTrainingDuration discards the training duration metric.
func (n *NopMetrics) RecordTrainingDuration(_ /* seconds */ float64, _ /* success */ bool) {
	// No-op
}

// PredictMetrics implementation

// RecordPredictDuration discards the prediction duration metric.
func (n *NopMetrics) RecordPredictDuration(_ /* seconds */ float64, _ /* proba */ bool) {
	// No-op
}

// RecordPredictPartitions discards the prediction partition count metric.
func (n *NopMetrics) RecordPredictPartitions(_ /* count */ int) {
	// No-op
}
