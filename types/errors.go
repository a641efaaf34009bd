package types

import "errors"

// Sentinel errors for the distboost library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Coordinator, Placement, Topology, Dispatch, etc.)
//   - Use consistent messages across similar error types

// Coordinator errors - Public API errors returned by Coordinator construction.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClusterRequired is returned when the cluster substrate is nil.
	ErrClusterRequired = errors.New("cluster is required")

	// ErrTrainerFactoryRequired is returned when the trainer factory is nil.
	ErrTrainerFactoryRequired = errors.New("trainer factory is required")

	// ErrNoPartitions is returned when training is requested with zero partitions.
	ErrNoPartitions = errors.New("no partitions to train on")
)

// Splitter errors - Partition splitting and chunk plumbing errors.
var (
	// ErrShapeMismatch is returned when data, label, and weight collections
	// do not share identical chunk boundaries or row counts.
	ErrShapeMismatch = errors.New("partitioning mismatch between data, label, and weight")

	// ErrUnsupportedChunk is returned when a row-container type is not
	// recognized by concatenation or prediction shaping.
	ErrUnsupportedChunk = errors.New("unsupported chunk type")

	// ErrChunkNotFound is returned when a chunk store has no chunk for a handle.
	ErrChunkNotFound = errors.New("chunk not found")
)

// Placement errors - Placement Resolver component errors.
var (
	// ErrPlacementFailed is returned when a partition could not be
	// materialized or located on any worker.
	ErrPlacementFailed = errors.New("partition placement failed")

	// ErrNoWorkersAvailable is returned when no worker holds any partition.
	ErrNoWorkersAvailable = errors.New("no workers available")
)

// Topology errors - Topology Builder component errors.
var (
	// ErrLocalAddressMissing is returned when the local worker address is not
	// present in the participating worker set. This indicates a placement bug
	// and is always fatal.
	ErrLocalAddressMissing = errors.New("local address not present in worker set")

	// ErrInvalidBasePort is returned when the base listen port is out of range
	// for the number of participating workers.
	ErrInvalidBasePort = errors.New("invalid base listen port")
)

// Dispatch errors - Task Dispatcher and Result Collector component errors.
var (
	// ErrTaskFailed wraps the first failure reported by a training task.
	ErrTaskFailed = errors.New("training task failed")

	// ErrResultConflict is returned when a fully successful round produced
	// zero or more than one model. This indicates an internal invariant
	// violation, not a normal failure mode.
	ErrResultConflict = errors.New("internal consistency: expected exactly one model result")
)

// Agent errors - NATS cluster agent lifecycle errors.
var (
	// ErrAgentAlreadyStarted is returned when Start is called on a running agent.
	ErrAgentAlreadyStarted = errors.New("agent already started")

	// ErrAgentNotStarted is returned when operations require a started agent.
	ErrAgentNotStarted = errors.New("agent not started")

	// ErrWorkerUnavailable is returned when a task is submitted to a worker
	// that is not registered or not responding.
	ErrWorkerUnavailable = errors.New("worker unavailable")
)
