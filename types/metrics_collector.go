package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from concurrent task goroutines and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	PlacementMetrics
	DispatchMetrics
	PredictMetrics
}

// PlacementMetrics defines metrics for partition placement.
type PlacementMetrics interface {
	// RecordPlacementDuration records the time taken to materialize and
	// place all partitions, in seconds.
	RecordPlacementDuration(seconds float64)

	// RecordPartitionCount sets the partition count of the current job.
	RecordPartitionCount(count int)

	// RecordWorkerCount sets the participating worker count of the current job.
	RecordWorkerCount(count int)
}

// DispatchMetrics defines metrics for task dispatch and collection.
type DispatchMetrics interface {
	// RecordTaskDispatched records one training task submission.
	//
	// Parameters:
	//   - worker: Worker address the task was submitted to
	RecordTaskDispatched(worker string)

	// RecordTaskCompleted records one training task completion.
	//
	// Parameters:
	//   - worker: Worker address the task ran on
	//   - success: true if the task succeeded
	//   - seconds: Task wall-clock duration in seconds
	RecordTaskCompleted(worker string, success bool, seconds float64)

	// RecordTrainingDuration records the end-to-end duration of one
	// training round in seconds.
	RecordTrainingDuration(seconds float64, success bool)
}

// PredictMetrics defines metrics for prediction fan-out.
type PredictMetrics interface {
	// RecordPredictDuration records the end-to-end duration of one
	// prediction fan-out in seconds.
	//
	// Parameters:
	//   - seconds: Fan-out duration
	//   - proba: true for class-probability output
	RecordPredictDuration(seconds float64, proba bool)

	// RecordPredictPartitions records the number of partitions predicted on.
	RecordPredictPartitions(count int)
}
