// Package dispatch builds and submits per-worker training tasks and
// collects the single authoritative result.
package dispatch

import (
	"context"
	"fmt"

	"github.com/arloliu/distboost/internal/placement"
	"github.com/arloliu/distboost/topology"
	"github.com/arloliu/distboost/types"
)

// Dispatcher submits one training task per partition-owning worker.
type Dispatcher struct {
	cluster types.Cluster
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks

	basePort int
	timeout  int // rendezvous timeout, minutes
}

// New creates a dispatcher for one training job.
//
// Parameters:
//   - cluster: Cluster substrate tasks are submitted to
//   - logger: Structured logger
//   - metrics: Metrics collector (never nil; use the nop collector)
//   - hooks: Lifecycle hooks (never nil; use the nop hooks)
//   - basePort: First trainer listen port
//   - timeout: Trainer rendezvous timeout in minutes
func New(cluster types.Cluster, logger types.Logger, metrics types.MetricsCollector, hooks *types.Hooks, basePort, timeout int) *Dispatcher {
	return &Dispatcher{
		cluster:  cluster,
		logger:   logger,
		metrics:  metrics,
		hooks:    hooks,
		basePort: basePort,
		timeout:  timeout,
	}
}

// Dispatch builds one task per worker in the placement map, submits them all
// to run concurrently, and blocks collecting results.
//
// Each task combines the caller's trainer parameters, a per-worker
// num_threads override from the worker's core count, the job topology (only
// the local listen port varies per task), and the return_model flag set true
// only for the result-bearing worker.
//
// Parameters:
//   - ctx: Context for cancellation
//   - pl: Resolved placement map
//   - params: Caller trainer parameters (not modified)
//   - cores: Available compute units per worker address
//
// Returns:
//   - types.Model: The single model from the result-bearing worker
//   - error: First task failure (fail-fast), topology failure, or
//     types.ErrResultConflict on an invariant violation
func (d *Dispatcher) Dispatch(ctx context.Context, pl *placement.Placement, params map[string]any, cores map[string]int) (types.Model, error) {
	results := make(map[string]<-chan types.TrainResult, len(pl.Workers))

	for _, addr := range pl.Workers {
		netParams, err := topology.Build(pl.Workers, addr, d.basePort, d.timeout)
		if err != nil {
			return nil, err
		}

		task := types.TrainTask{
			Params:      withThreads(params, cores[addr]),
			Parts:       pl.ByWorker[addr],
			Network:     netParams,
			ReturnModel: addr == pl.ResultWorker,
		}

		ch, err := d.cluster.SubmitTrain(ctx, addr, task)
		if err != nil {
			return nil, fmt.Errorf("failed to submit task to %s: %w", addr, err)
		}

		d.metrics.RecordTaskDispatched(addr)
		d.logger.Debug("training task dispatched",
			"worker", addr,
			"partitions", len(task.Parts),
			"listenPort", netParams.LocalListenPort,
			"returnModel", task.ReturnModel,
		)

		results[addr] = ch
	}

	return d.collect(ctx, results)
}

// withThreads copies params with the trainer thread-count override applied.
// A zero core count leaves the caller's setting untouched.
func withThreads(params map[string]any, cores int) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if cores > 0 {
		out["num_threads"] = cores
	}

	return out
}
