// Package placement resolves partition handles to the workers that
// physically hold them and builds the per-job placement map.
package placement

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/distboost/types"
)

// Placement is the result of one placement resolution pass.
//
// It is built in a single pass and immutable afterward. Workers owning zero
// partitions are excluded entirely: they appear neither in Workers nor in
// ByWorker, and therefore never enter the job topology.
type Placement struct {
	// Workers enumerates participating worker addresses in first-appearance
	// order over the partition list. This enumeration is the stable ordering
	// used for topology construction, so every task of the job sees the
	// identical host:port table.
	Workers []string

	// ByWorker maps each participating worker to the ordered partitions it
	// owns. Every partition appears in exactly one worker's list.
	ByWorker map[string][]types.Part

	// ResultWorker is the single worker whose task returns the trained
	// model. The first worker of the enumeration is chosen; the rule is an
	// arbitrary deterministic tie-break, stable within a job but not
	// necessarily across jobs with different cluster topologies.
	ResultWorker string
}

// Resolver asks the cluster where each partition physically resides and
// groups partitions by holder.
type Resolver struct {
	cluster types.Cluster
	logger  types.Logger
}

// NewResolver creates a placement resolver on the given cluster substrate.
func NewResolver(cluster types.Cluster, logger types.Logger) *Resolver {
	return &Resolver{cluster: cluster, logger: logger}
}

// Resolve materializes all partition chunks, queries their locations, and
// builds the placement map.
//
// Failure policy is fail-fast: the first materialization or lookup failure
// aborts the whole job immediately, with no error aggregation across
// partitions and no partial training.
//
// When a chunk is reported as held by multiple workers, the first reported
// holder wins. This avoids duplicate compute; the choice is deterministic
// for a given cluster report but arbitrary otherwise.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - parts: Ordered partition tuples from the splitter
//
// Returns:
//   - *Placement: Immutable placement map with the result-bearing worker chosen
//   - error: Placement failure, nil on success
func (r *Resolver) Resolve(ctx context.Context, parts []types.Part) (*Placement, error) {
	if len(parts) == 0 {
		return nil, types.ErrNoPartitions
	}

	start := time.Now()

	// Trigger evaluation of every chunk and block until all are resident.
	all := make([]types.Handle, 0, len(parts)*3)
	for _, p := range parts {
		all = append(all, p.Handles()...)
	}
	if err := r.cluster.Materialize(ctx, all); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrPlacementFailed, err)
	}

	// Partitions are co-located by construction, so the data chunk's
	// location stands for the whole partition.
	dataHandles := make([]types.Handle, len(parts))
	for i, p := range parts {
		dataHandles[i] = p.Data
	}

	locations, err := r.cluster.WhoHas(ctx, dataHandles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrPlacementFailed, err)
	}

	placement := &Placement{ByWorker: make(map[string][]types.Part)}
	for _, p := range parts {
		holders := locations[p.Data.Key]
		if len(holders) == 0 {
			return nil, fmt.Errorf("%w: partition %s is not resident on any worker",
				types.ErrPlacementFailed, p.Data.Key)
		}

		// First reported holder wins on multi-held chunks.
		worker := holders[0]
		if _, seen := placement.ByWorker[worker]; !seen {
			placement.Workers = append(placement.Workers, worker)
		}
		placement.ByWorker[worker] = append(placement.ByWorker[worker], p)
	}

	placement.ResultWorker = placement.Workers[0]

	r.logger.Debug("placement resolved",
		"partitions", len(parts),
		"workers", len(placement.Workers),
		"resultWorker", placement.ResultWorker,
		"elapsed", time.Since(start),
	)

	return placement, nil
}
