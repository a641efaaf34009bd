package distboost

import (
	"context"
	"fmt"
	"time"
)

// Predict applies a trained model to each partition independently and
// returns point predictions (one value per row) in partition order.
//
// See PredictProba for class-probability output.
//
// Parameters:
//   - ctx: Context for cancellation
//   - model: Trained model from a previous Train round
//   - data: Ordered feature chunk handles, partitioned like the training inputs
//
// Returns:
//   - []Chunk: One result chunk per input partition, same order, same shape
//     family (tabular in, tabular out; array in, array out)
//   - error: First partition failure (fail-fast)
func (c *Coordinator) Predict(ctx context.Context, model Model, data []Handle) ([]Chunk, error) {
	return c.predict(ctx, model, data, false)
}

// PredictProba applies a trained model to each partition independently and
// returns class-probability matrices (one row of probabilities per input
// row) in partition order.
//
// Parameters:
//   - ctx: Context for cancellation
//   - model: Trained model from a previous Train round
//   - data: Ordered feature chunk handles, partitioned like the training inputs
//
// Returns:
//   - []Chunk: One result chunk per input partition, same order, same shape family
//   - error: First partition failure (fail-fast)
func (c *Coordinator) PredictProba(ctx context.Context, model Model, data []Handle) ([]Chunk, error) {
	return c.predict(ctx, model, data, true)
}

// predictOutcome carries one partition's result with its input position.
type predictOutcome struct {
	index  int
	result PredictResult
}

func (c *Coordinator) predict(ctx context.Context, model Model, data []Handle, proba bool) ([]Chunk, error) {
	started := time.Now()
	if len(data) == 0 {
		return []Chunk{}, nil
	}

	// Each partition is predicted on the worker already holding it; no
	// cross-partition state, no data movement.
	if err := c.cluster.Materialize(ctx, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlacementFailed, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, c.cfg.OperationTimeout)
	locations, err := c.cluster.WhoHas(opCtx, data)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlacementFailed, err)
	}

	numClasses := model.NumClasses()
	merged := make(chan predictOutcome, len(data))

	for i, handle := range data {
		holders := locations[handle.Key]
		if len(holders) == 0 {
			return nil, fmt.Errorf("%w: partition %s is not resident on any worker",
				ErrPlacementFailed, handle.Key)
		}

		task := PredictTask{Data: handle, Proba: proba, NumClasses: numClasses}
		ch, err := c.cluster.SubmitPredict(ctx, holders[0], model, task)
		if err != nil {
			return nil, fmt.Errorf("failed to submit prediction to %s: %w", holders[0], err)
		}

		go func(index int, ch <-chan PredictResult) {
			merged <- predictOutcome{index: index, result: <-ch}
		}(i, ch)
	}

	// Reassemble preserving partition order and indexing.
	results := make([]Chunk, len(data))
	for range data {
		var out predictOutcome
		select {
		case out = <-merged:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if out.result.Err != nil {
			return nil, fmt.Errorf("prediction on partition %s failed: %w",
				data[out.index].Key, out.result.Err)
		}
		results[out.index] = out.result.Chunk
	}

	c.metrics.RecordPredictDuration(time.Since(started).Seconds(), proba)
	c.metrics.RecordPredictPartitions(len(data))

	return results, nil
}
