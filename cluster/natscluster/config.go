package natscluster

import (
	"fmt"
	"time"
)

// Config configures the NATS-backed cluster substrate.
//
// All duration fields accept standard Go duration strings like "2s", "30s".
type Config struct {
	// SubjectPrefix is the prefix for task subjects
	// (e.g. "distboost" produces "distboost.train.<worker>").
	SubjectPrefix string `yaml:"subjectPrefix"`

	// WorkersBucket is the KV bucket name for the worker registry.
	WorkersBucket string `yaml:"workersBucket"`

	// PlacementBucket is the KV bucket name for chunk locations.
	PlacementBucket string `yaml:"placementBucket"`

	// HeartbeatInterval is how often worker agents refresh their registry
	// entry. Recommended: 2-5 seconds.
	HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`

	// WorkerTTL is how long a registry entry remains valid without a
	// heartbeat before the worker is considered gone.
	// Must be greater than HeartbeatInterval. Recommended: 3x.
	WorkerTTL time.Duration `yaml:"workerTtl"`

	// MaterializeTimeout bounds how long Materialize waits for all chunks
	// to become resident before reporting a placement failure.
	MaterializeTimeout time.Duration `yaml:"materializeTimeout"`

	// OperationTimeout is the timeout for KV operations (get, put, list).
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		SubjectPrefix:      "distboost",
		WorkersBucket:      "distboost-workers",
		PlacementBucket:    "distboost-placement",
		HeartbeatInterval:  2 * time.Second,
		WorkerTTL:          6 * time.Second,
		MaterializeTimeout: 30 * time.Second,
		OperationTimeout:   10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = defaults.SubjectPrefix
	}
	if cfg.WorkersBucket == "" {
		cfg.WorkersBucket = defaults.WorkersBucket
	}
	if cfg.PlacementBucket == "" {
		cfg.PlacementBucket = defaults.PlacementBucket
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if cfg.WorkerTTL == 0 {
		cfg.WorkerTTL = defaults.WorkerTTL
	}
	if cfg.MaterializeTimeout == 0 {
		cfg.MaterializeTimeout = defaults.MaterializeTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
}

// Validate checks configuration constraints and returns an error for
// invalid values.
//
// Hard Validation Rules:
//   - WorkerTTL >= 2 * HeartbeatInterval (allow one missed heartbeat)
//   - MaterializeTimeout > 0
//   - OperationTimeout > 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.WorkerTTL < 2*cfg.HeartbeatInterval {
		return fmt.Errorf(
			"WorkerTTL (%v) must be >= 2*HeartbeatInterval (%v) to allow one missed heartbeat",
			cfg.WorkerTTL, cfg.HeartbeatInterval,
		)
	}

	if cfg.MaterializeTimeout <= 0 {
		return fmt.Errorf("MaterializeTimeout must be > 0, got %v", cfg.MaterializeTimeout)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	return nil
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with fast timings for tests
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.HeartbeatInterval = 200 * time.Millisecond // 10x faster
	cfg.WorkerTTL = 1 * time.Second                // 6x faster
	cfg.MaterializeTimeout = 5 * time.Second       // 6x faster
	cfg.OperationTimeout = 2 * time.Second         // 5x faster

	return cfg
}
