// Package worker executes training and prediction tasks on the worker that
// holds the task's data.
//
// Every Cluster implementation funnels task execution through an Executor so
// the concatenation, trainer invocation, and network-cleanup semantics are
// identical whether the worker is a goroutine in the orchestrating process or
// a remote agent.
package worker

import (
	"context"
	"fmt"

	"github.com/arloliu/distboost/dataset"
	"github.com/arloliu/distboost/types"
)

// ModelLoader produces the model for a prediction task on demand.
//
// Remote substrates rehydrate the model from its serialized form here; the
// loader is never called for zero-row partitions, so empty partitions
// short-circuit without touching the model at all.
type ModelLoader func() (types.Model, error)

// Executor runs tasks against a worker's local chunk store.
type Executor struct {
	factory types.TrainerFactory
	logger  types.Logger
}

// NewExecutor creates an executor backed by the given trainer factory.
func NewExecutor(factory types.TrainerFactory, logger types.Logger) *Executor {
	return &Executor{factory: factory, logger: logger}
}

// ExecuteTrain runs one training task using only data already resident in
// the worker's store.
//
// The task's partitions are concatenated into single data, label, and
// optional weight buffers before the trainer is invoked. Process-wide
// networking resources acquired by the trainer are released on every exit
// path, success or failure, before the worker can join a subsequent job.
//
// Parameters:
//   - ctx: Context for cancellation
//   - store: The worker's local chunk store
//   - task: The task descriptor built by the dispatcher
//
// Returns:
//   - types.Model: The trained model when task.ReturnModel is set, nil otherwise
//   - error: Concatenation, trainer, or store error
func (e *Executor) ExecuteTrain(ctx context.Context, store types.ChunkStore, task types.TrainTask) (types.Model, error) {
	data, label, weight, err := e.assembleParts(ctx, store, task.Parts)
	if err != nil {
		return nil, err
	}

	params := task.Network.Merge(task.Params)

	trainer, err := e.factory.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}
	defer func() {
		// The trainer owns process-wide listen sockets for the job; they
		// must be released even when Fit fails.
		if ferr := trainer.FreeNetwork(); ferr != nil {
			e.logger.Warn("failed to release trainer network resources", "error", ferr)
		}
	}()

	model, err := trainer.Fit(ctx, data, label, weight)
	if err != nil {
		return nil, fmt.Errorf("trainer fit failed: %w", err)
	}

	if !task.ReturnModel {
		return nil, nil
	}

	return model, nil
}

// ExecutePredict applies a model to one partition.
//
// Zero-row partitions return an empty result of the correct shape family
// without loading or invoking the model. Otherwise the loader supplies the
// model and the raw output is reshaped to match the input's shape family.
//
// Parameters:
//   - ctx: Context for cancellation
//   - store: The worker's local chunk store
//   - load: On-demand model loader (not called for zero-row partitions)
//   - task: The prediction task descriptor
//
// Returns:
//   - types.Chunk: Prediction result in the input's shape family
//   - error: Store, model, or shape error
func (e *Executor) ExecutePredict(ctx context.Context, store types.ChunkStore, load ModelLoader, task types.PredictTask) (types.Chunk, error) {
	chunk, err := store.Get(ctx, task.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to load partition %s: %w", task.Data.Key, err)
	}

	if chunk.NumRows() == 0 {
		return dataset.EmptyPrediction(chunk, task.Proba, task.NumClasses)
	}

	model, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	var raw types.Chunk
	if task.Proba {
		raw, err = model.PredictProba(ctx, chunk)
	} else {
		raw, err = model.Predict(ctx, chunk)
	}
	if err != nil {
		return nil, fmt.Errorf("model predict failed: %w", err)
	}

	return dataset.ShapePrediction(chunk, raw, task.Proba, task.NumClasses)
}

// assembleParts fetches every chunk of the task's partitions from the local
// store and concatenates them into single buffers.
func (e *Executor) assembleParts(ctx context.Context, store types.ChunkStore, parts []types.Part) (data, label, weight types.Chunk, err error) {
	if len(parts) == 0 {
		return nil, nil, nil, types.ErrNoPartitions
	}

	weighted := parts[0].HasWeight()
	dataChunks := make([]types.Chunk, 0, len(parts))
	labelChunks := make([]types.Chunk, 0, len(parts))
	var weightChunks []types.Chunk
	if weighted {
		weightChunks = make([]types.Chunk, 0, len(parts))
	}

	for _, p := range parts {
		if p.HasWeight() != weighted {
			return nil, nil, nil, fmt.Errorf("%w: partitions disagree on sample weights",
				types.ErrShapeMismatch)
		}

		dc, err := store.Get(ctx, p.Data)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load data chunk %s: %w", p.Data.Key, err)
		}
		lc, err := store.Get(ctx, p.Label)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load label chunk %s: %w", p.Label.Key, err)
		}
		if dc.NumRows() != lc.NumRows() {
			return nil, nil, nil, fmt.Errorf("%w: data chunk %s has %d rows, label chunk %s has %d rows",
				types.ErrShapeMismatch, p.Data.Key, dc.NumRows(), p.Label.Key, lc.NumRows())
		}

		dataChunks = append(dataChunks, dc)
		labelChunks = append(labelChunks, lc)

		if weighted {
			wc, err := store.Get(ctx, p.Weight)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to load weight chunk %s: %w", p.Weight.Key, err)
			}
			if wc.NumRows() != dc.NumRows() {
				return nil, nil, nil, fmt.Errorf("%w: weight chunk %s has %d rows, data chunk %s has %d rows",
					types.ErrShapeMismatch, p.Weight.Key, wc.NumRows(), p.Data.Key, dc.NumRows())
			}
			weightChunks = append(weightChunks, wc)
		}
	}

	if data, err = dataset.Concat(dataChunks); err != nil {
		return nil, nil, nil, err
	}
	if label, err = dataset.Concat(labelChunks); err != nil {
		return nil, nil, nil, err
	}
	if weighted {
		if weight, err = dataset.Concat(weightChunks); err != nil {
			return nil, nil, nil, err
		}
	}

	return data, label, weight, nil
}
