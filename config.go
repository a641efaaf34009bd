package distboost

import (
	"fmt"
	"time"
)

// Config is the configuration for the Coordinator.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "2h".
type Config struct {
	// BasePort is the first trainer listen port. Worker i of a job's stable
	// enumeration listens on BasePort+i, so the port range
	// [BasePort, BasePort+workers) must be free on every worker.
	// A "local_listen_port" trainer parameter overrides this per job.
	BasePort int `yaml:"basePort"`

	// RendezvousTimeout is how long the trainer's communication layer waits
	// for all workers of a job to connect. It is passed to the trainer in
	// whole minutes; sub-minute precision is truncated.
	// A "time_out" trainer parameter (minutes) overrides this per job.
	//
	// This layer imposes no wall-clock timeout of its own on task
	// collection: a hung worker hangs the collection barrier.
	RendezvousTimeout time.Duration `yaml:"rendezvousTimeout"`

	// OperationTimeout bounds individual cluster lookups (partition
	// locations, core counts). Recommended: 10 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		BasePort:          12400,
		RendezvousTimeout: 120 * time.Minute,
		OperationTimeout:  10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.BasePort == 0 {
		cfg.BasePort = defaults.BasePort
	}
	if cfg.RendezvousTimeout == 0 {
		cfg.RendezvousTimeout = defaults.RendezvousTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
}

// Validate checks configuration constraints and returns an error for
// invalid values.
//
// Hard Validation Rules:
//   - BasePort in [1, 65535]
//   - RendezvousTimeout >= 1 minute (the trainer contract carries whole minutes)
//   - OperationTimeout > 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.BasePort < 1 || cfg.BasePort > 65535 {
		return fmt.Errorf("BasePort must be in [1, 65535], got %d", cfg.BasePort)
	}

	if cfg.RendezvousTimeout < time.Minute {
		return fmt.Errorf(
			"RendezvousTimeout (%v) must be >= 1m; the trainer receives it in whole minutes",
			cfg.RendezvousTimeout,
		)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values.
//
// This is called after Validate() in New() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.BasePort < 1024 {
		logger.Warn(
			"BasePort is in the privileged port range",
			"basePort", cfg.BasePort,
			"recommended", "12400 or another unprivileged port",
		)
	}

	if cfg.RendezvousTimeout%time.Minute != 0 {
		logger.Warn(
			"RendezvousTimeout is not a whole number of minutes and will be truncated",
			"rendezvousTimeout", cfg.RendezvousTimeout,
			"effective", cfg.RendezvousTimeout.Truncate(time.Minute),
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := distboost.TestConfig()
//	coord, err := distboost.New(&cfg, cluster, factory)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.RendezvousTimeout = 1 * time.Minute // 120x faster
	cfg.OperationTimeout = 2 * time.Second  // 5x faster

	return cfg
}
