package distboost

import "github.com/arloliu/distboost/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `distboost`
// package, while still providing a convenient `distboost.Model`,
// `distboost.Cluster`, etc. for users.
type (
	Chunk         = types.Chunk
	ChunkKind     = types.ChunkKind
	Matrix        = types.Matrix
	Vector        = types.Vector
	Frame         = types.Frame
	Handle        = types.Handle
	Part          = types.Part
	NetworkParams = types.NetworkParams
	TrainTask     = types.TrainTask
	PredictTask   = types.PredictTask
	TrainResult   = types.TrainResult
	PredictResult = types.PredictResult
)

// Re-export interfaces from the internal types package for convenience.
type (
	Cluster          = types.Cluster
	ChunkStore       = types.ChunkStore
	TrainerFactory   = types.TrainerFactory
	Trainer          = types.Trainer
	Model            = types.Model
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Hooks            = types.Hooks
)

// Re-export ChunkKind constants from the internal types package.
const (
	KindMatrix = types.KindMatrix
	KindVector = types.KindVector
	KindFrame  = types.KindFrame
)
