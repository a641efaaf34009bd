package types

import "context"

// TrainResult is the outcome of one worker's training task.
//
// Model is nil for non-result-bearing workers on success.
type TrainResult struct {
	Model Model
	Err   error
}

// PredictResult is the outcome of one partition's prediction task.
type PredictResult struct {
	Chunk Chunk
	Err   error
}

// ChunkStore provides access to the chunks physically resident on one worker.
//
// Implementations must be safe for concurrent use. Get returns
// ErrChunkNotFound (possibly wrapped) when the worker does not hold the chunk.
type ChunkStore interface {
	// Get returns the chunk referenced by handle.
	Get(ctx context.Context, handle Handle) (Chunk, error)

	// Put stores a chunk under handle, replacing any existing chunk.
	Put(ctx context.Context, handle Handle, chunk Chunk) error
}

// Cluster is the injected cluster substrate the orchestration layer runs on.
//
// It answers two questions - "where is this partition" and "how many compute
// units does this worker have" - and runs tasks on the worker's own execution
// context. The orchestrating process never performs training compute itself.
//
// Implementations:
//   - cluster/inproc: goroutine workers in a single process (tests, local runs)
//   - cluster/natscluster: remote workers coordinated over NATS JetStream
//
// Retries, if any, belong to the substrate; the orchestration layer never
// retries placement or task submission.
type Cluster interface {
	// Materialize triggers evaluation of the given handles and blocks until
	// every one is physically resident on some worker. If any handle fails
	// to materialize, the first failure is returned immediately without
	// waiting on the remaining handles.
	Materialize(ctx context.Context, handles []Handle) error

	// WhoHas reports, for each handle key, the ordered list of worker
	// addresses currently holding that chunk. Handles held nowhere are
	// absent from the result.
	WhoHas(ctx context.Context, handles []Handle) (map[string][]string, error)

	// CoreCounts reports the available compute units per worker address.
	CoreCounts(ctx context.Context) (map[string]int, error)

	// SubmitTrain runs the training task on the given worker's execution
	// context and delivers exactly one TrainResult on the returned channel.
	SubmitTrain(ctx context.Context, worker string, task TrainTask) (<-chan TrainResult, error)

	// SubmitPredict applies the model to the task's partition on the given
	// worker and delivers exactly one PredictResult on the returned channel.
	SubmitPredict(ctx context.Context, worker string, model Model, task PredictTask) (<-chan PredictResult, error)
}
