// Package types contains shared types and interfaces used across the distboost library.
//
// This package is imported by both the public distboost package and internal
// packages, so it must remain a leaf package with no imports from other
// distboost packages to avoid circular dependencies.
//
// Key types:
//   - Cluster, ChunkStore: the injected cluster substrate
//   - TrainerFactory, Trainer, Model: the opaque boosting trainer
//   - Chunk, Matrix, Vector, Frame: row-container value types
//   - Handle, Part: partition references
//   - NetworkParams, TrainTask, PredictTask: per-job task descriptors
//   - Logger, MetricsCollector, Hooks: observability interfaces
package types
