package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/distboost/types"
)

// outcome pairs one worker's result with its identity and task duration.
type outcome struct {
	worker  string
	result  types.TrainResult
	elapsed time.Duration
}

// collect waits for all dispatched tasks and returns the single model
// produced by the result-bearing worker.
//
// The first task failure is returned immediately without waiting on the
// remaining tasks. On a fully successful round, exactly one non-nil model
// must exist; zero or multiple models is an internal invariant violation
// reported as types.ErrResultConflict, never silently resolved.
func (d *Dispatcher) collect(ctx context.Context, results map[string]<-chan types.TrainResult) (types.Model, error) {
	// Buffered so forwarders never block after a fail-fast return; done
	// releases forwarders still waiting on a worker that never resolves.
	merged := make(chan outcome, len(results))
	done := make(chan struct{})
	defer close(done)
	started := time.Now()

	for addr, ch := range results {
		go func(addr string, ch <-chan types.TrainResult) {
			select {
			case res := <-ch:
				merged <- outcome{worker: addr, result: res, elapsed: time.Since(started)}
			case <-done:
			}
		}(addr, ch)
	}

	var models []types.Model
	for range results {
		var out outcome
		select {
		case out = <-merged:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		ok := out.result.Err == nil
		d.metrics.RecordTaskCompleted(out.worker, ok, out.elapsed.Seconds())
		d.fireTaskCompleted(ctx, out.worker, out.result.Err)

		if !ok {
			d.logger.Error("training task failed",
				"worker", out.worker,
				"error", out.result.Err,
			)

			return nil, fmt.Errorf("%w: worker %s: %w", types.ErrTaskFailed, out.worker, out.result.Err)
		}

		if out.result.Model != nil {
			models = append(models, out.result.Model)
		}
	}

	if len(models) != 1 {
		return nil, fmt.Errorf("%w: got %d", types.ErrResultConflict, len(models))
	}

	return models[0], nil
}

// fireTaskCompleted invokes the OnTaskCompleted hook when set. Hook errors
// are logged, never propagated.
func (d *Dispatcher) fireTaskCompleted(ctx context.Context, addr string, taskErr error) {
	if d.hooks == nil || d.hooks.OnTaskCompleted == nil {
		return
	}
	if err := d.hooks.OnTaskCompleted(ctx, addr, taskErr); err != nil {
		d.logger.Warn("OnTaskCompleted hook failed", "worker", addr, "error", err)
	}
}
