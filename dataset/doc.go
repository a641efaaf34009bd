// Package dataset provides partition splitting and row-container plumbing.
//
// The splitters convert a logical dataset (feature matrix, labels, optional
// sample weights) into co-indexed partition handles without moving data.
// Concat reassembles a worker's local chunks into single buffers before the
// trainer is invoked, and the prediction shaping helpers keep output chunks
// in the same shape family as their inputs.
//
// Supported row containers are types.Matrix, types.Vector, and types.Frame.
// Any other Chunk implementation is rejected with types.ErrUnsupportedChunk.
package dataset
