package types

import "context"

// Hooks defines optional callbacks for training lifecycle events.
//
// All hooks are optional. Hooks are invoked synchronously on the training
// flow, so implementations should complete quickly and respect context
// cancellation. Hook errors are logged but never fail the training round.
type Hooks struct {
	// OnPlacementResolved is called after the placement map is built.
	// partsByWorker maps each participating worker address to its
	// partition count; resultWorker is the result-bearing worker.
	OnPlacementResolved func(ctx context.Context, partsByWorker map[string]int, resultWorker string) error

	// OnTaskCompleted is called when one worker's training task finishes.
	// err is nil on success.
	OnTaskCompleted func(ctx context.Context, worker string, err error) error

	// OnError is called when a recoverable error occurs.
	OnError func(ctx context.Context, err error) error
}
