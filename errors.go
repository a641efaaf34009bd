package distboost

import "github.com/arloliu/distboost/types"

// Sentinel errors returned by the Coordinator, re-exported from the types
// package so callers can use errors.Is against either package.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrClusterRequired is returned when the cluster substrate is nil.
	ErrClusterRequired = types.ErrClusterRequired

	// ErrTrainerFactoryRequired is returned when the trainer factory is nil.
	ErrTrainerFactoryRequired = types.ErrTrainerFactoryRequired

	// ErrNoPartitions is returned when training is requested with zero partitions.
	ErrNoPartitions = types.ErrNoPartitions

	// ErrShapeMismatch is returned when data, label, and weight collections
	// do not share identical chunk boundaries or row counts.
	ErrShapeMismatch = types.ErrShapeMismatch

	// ErrUnsupportedChunk is returned when a row-container type is not
	// recognized.
	ErrUnsupportedChunk = types.ErrUnsupportedChunk

	// ErrPlacementFailed is returned when a partition could not be
	// materialized or located.
	ErrPlacementFailed = types.ErrPlacementFailed

	// ErrLocalAddressMissing is returned when a worker's address is absent
	// from the job's worker set.
	ErrLocalAddressMissing = types.ErrLocalAddressMissing

	// ErrTaskFailed wraps the first failure reported by a training task.
	ErrTaskFailed = types.ErrTaskFailed

	// ErrResultConflict is returned when a successful round produced zero
	// or more than one model. Always a defect, never silently resolved.
	ErrResultConflict = types.ErrResultConflict
)
