package distboost

// Option configures a Coordinator with optional dependencies.
type Option func(*coordinatorOptions)

// coordinatorOptions holds optional Coordinator configuration.
type coordinatorOptions struct {
	hooks   *Hooks
	metrics MetricsCollector
	logger  Logger
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &distboost.Hooks{
//	    OnTaskCompleted: func(ctx context.Context, worker string, err error) error {
//	        return recordCompletion(worker, err)
//	    },
//	}
//	coord, err := distboost.New(&cfg, cluster, factory, distboost.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *coordinatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := distboost.NewPrometheusMetrics(nil, "distboost")
//	coord, err := distboost.New(&cfg, cluster, factory, distboost.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *coordinatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	coord, err := distboost.New(&cfg, cluster, factory, distboost.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *coordinatorOptions) {
		o.logger = logger
	}
}
