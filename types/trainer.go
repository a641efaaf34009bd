package types

import "context"

// TrainerFactory creates trainer instances and rehydrates serialized models.
//
// The factory is the library's only view of the boosting implementation.
// It is opaque: this layer supplies parameters and local data, nothing else.
type TrainerFactory interface {
	// New creates a trainer configured with the given parameters.
	//
	// The parameter map includes the caller's trainer parameters plus the
	// network parameter contract (machines, local_listen_port, time_out,
	// num_machines) and the per-worker num_threads override.
	New(params map[string]any) (Trainer, error)

	// LoadModel rehydrates a model previously serialized with
	// Model.MarshalBinary. Used by transports that move models between
	// processes.
	LoadModel(data []byte) (Model, error)
}

// Trainer is one opaque boosting training instance.
//
// Fit may open process-wide network connections to the other workers'
// same-job listen ports; FreeNetwork must release them on every exit path
// before the process can participate in a subsequent job.
type Trainer interface {
	// Fit trains on the given local data and returns the trained model.
	// weight may be nil when the dataset carries no sample weights.
	Fit(ctx context.Context, data, label, weight Chunk) (Model, error)

	// FreeNetwork releases any process-wide networking resources acquired
	// by Fit. Safe to call after a failed Fit.
	FreeNetwork() error
}

// Model is an opaque trained model.
type Model interface {
	// Predict returns point predictions, one value per input row.
	Predict(ctx context.Context, data Chunk) (Chunk, error)

	// PredictProba returns class probabilities, one row of probabilities
	// per input row.
	PredictProba(ctx context.Context, data Chunk) (Chunk, error)

	// NumClasses reports the number of classes (1 for regression).
	NumClasses() int

	// MarshalBinary serializes the model for transport.
	MarshalBinary() ([]byte, error)
}
