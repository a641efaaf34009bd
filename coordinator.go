package distboost

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/distboost/dataset"
	"github.com/arloliu/distboost/internal/dispatch"
	"github.com/arloliu/distboost/internal/hooks"
	"github.com/arloliu/distboost/internal/logging"
	"github.com/arloliu/distboost/internal/metrics"
	"github.com/arloliu/distboost/internal/placement"
)

// treeLearners are the trainer parallelization strategies valid for
// multi-worker training.
var treeLearners = map[string]struct{}{
	"data":    {},
	"feature": {},
	"voting":  {},
}

// Coordinator orchestrates distributed training rounds on an injected
// cluster substrate.
//
// The Coordinator handles:
//   - Partition-to-worker placement (data never moves)
//   - Collision-free network topology derivation for the trainer
//   - One training task per partition-owning worker
//   - Fail-fast result collection with a single authoritative model
//   - Prediction fan-out across partitions
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Concurrent Train calls must use disjoint port ranges (set a
//     per-job "local_listen_port" parameter) since trainer listen ports
//     are process-wide
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type BoostingCoordinator interface {
//	    Train(ctx context.Context, input distboost.TrainInput) (distboost.Model, error)
//	}
type Coordinator struct {
	cfg     Config
	cluster Cluster
	factory TrainerFactory

	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	resolver *placement.Resolver
}

// TrainInput is one training round's dataset and trainer parameters.
type TrainInput struct {
	// Data holds the ordered feature chunk handles.
	Data []Handle

	// Label holds the label chunk handles, co-indexed with Data.
	Label []Handle

	// Weight holds optional sample-weight chunk handles, co-indexed with
	// Data. Nil for unweighted training.
	Weight []Handle

	// Params holds the caller's trainer parameters. Never modified; the
	// per-task parameter sets are derived copies.
	Params map[string]any
}

// New creates a new Coordinator instance with the provided configuration.
//
// Returns a concrete *Coordinator struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration with parsed durations
//   - cluster: Cluster substrate for placement and task execution
//   - factory: Opaque trainer factory
//   - opts: Optional configuration (hooks, metrics, logger)
//
// Returns:
//   - *Coordinator: Initialized coordinator instance
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := distboost.DefaultConfig()
//	coord, err := distboost.New(&cfg, cluster, factory, distboost.WithLogger(logger))
func New(cfg *Config, cluster Cluster, factory TrainerFactory, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if cluster == nil {
		return nil, ErrClusterRequired
	}
	if factory == nil {
		return nil, ErrTrainerFactoryRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &coordinatorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	// Validate with warnings after logger is available
	cfg.ValidateWithWarnings(loggerInstance)

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	return &Coordinator{
		cfg:      *cfg,
		cluster:  cluster,
		factory:  factory,
		hooks:    hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		resolver: placement.NewResolver(cluster, loggerInstance),
	}, nil
}

// Train runs one synchronous training round: split, place, build topology,
// dispatch, collect.
//
// Blocks until every worker's task finishes or the first task fails. No
// wall-clock timeout is imposed beyond ctx; the trainer's own rendezvous
// timeout governs the communication plane.
//
// Parameters:
//   - ctx: Context for cancellation
//   - input: Dataset handles and trainer parameters
//
// Returns:
//   - Model: The single model from the result-bearing worker
//   - error: First failure of any stage; no partial training survives
func (c *Coordinator) Train(ctx context.Context, input TrainInput) (Model, error) {
	started := time.Now()

	model, err := c.train(ctx, input)

	c.metrics.RecordTrainingDuration(time.Since(started).Seconds(), err == nil)
	if err != nil {
		c.fireError(ctx, err)

		return nil, err
	}

	return model, nil
}

func (c *Coordinator) train(ctx context.Context, input TrainInput) (Model, error) {
	// Split: group co-indexed handles into partition tuples.
	parts, err := dataset.Zip(input.Data, input.Label, input.Weight)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrNoPartitions
	}

	// Place: materialize all chunks and group partitions by holder.
	placeStart := time.Now()
	pl, err := c.resolver.Resolve(ctx, parts)
	if err != nil {
		return nil, err
	}
	c.metrics.RecordPlacementDuration(time.Since(placeStart).Seconds())
	c.metrics.RecordPartitionCount(len(parts))
	c.metrics.RecordWorkerCount(len(pl.Workers))
	c.firePlacementResolved(ctx, pl)

	params := c.normalizeParams(input.Params)

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	cores, err := c.cluster.CoreCounts(opCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to query worker core counts: %w", err)
	}

	// Dispatch and collect. Per-job parameters may override the configured
	// port and rendezvous timeout.
	dispatcher := dispatch.New(
		c.cluster, c.logger, c.metrics, c.hooks,
		intParam(params, "local_listen_port", c.cfg.BasePort),
		intParam(params, "time_out", int(c.cfg.RendezvousTimeout/time.Minute)),
	)

	c.logger.Info("dispatching training round",
		"partitions", len(parts),
		"workers", len(pl.Workers),
		"resultWorker", pl.ResultWorker,
	)

	return dispatcher.Dispatch(ctx, pl, params, cores)
}

// normalizeParams returns a copy of the caller's parameters with a valid
// tree-construction parallelization strategy.
//
// Training across workers silently degrades to single-machine behavior
// without a distributed tree learner, so an unset or invalid value is
// replaced with the safe data-parallel default and reported as a
// diagnostic warning, the one non-fatal diagnostic of the pipeline.
func (c *Coordinator) normalizeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params)+1)
	for k, v := range params {
		out[k] = v
	}

	learner, _ := out["tree_learner"].(string)
	if _, ok := treeLearners[strings.ToLower(learner)]; !ok {
		c.logger.Warn(
			"tree_learner not set or set to incorrect value, using \"data\" as default",
			"treeLearner", out["tree_learner"],
		)
		out["tree_learner"] = "data"
	}

	return out
}

// intParam reads an integer trainer parameter, tolerating the numeric types
// a deserialized parameter map may carry.
func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func (c *Coordinator) firePlacementResolved(ctx context.Context, pl *placement.Placement) {
	if c.hooks.OnPlacementResolved == nil {
		return
	}

	counts := make(map[string]int, len(pl.ByWorker))
	for addr, parts := range pl.ByWorker {
		counts[addr] = len(parts)
	}

	if err := c.hooks.OnPlacementResolved(ctx, counts, pl.ResultWorker); err != nil {
		c.logger.Warn("OnPlacementResolved hook failed", "error", err)
	}
}

func (c *Coordinator) fireError(ctx context.Context, trainErr error) {
	if c.hooks.OnError == nil {
		return
	}

	if err := c.hooks.OnError(ctx, trainErr); err != nil {
		c.logger.Warn("OnError hook failed", "error", err)
	}
}
