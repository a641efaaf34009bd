package types

// TrainTask describes one worker's share of a training job.
//
// Exactly one task per participating worker is built, and exactly one task
// per job carries ReturnModel=true. Tasks are serializable so cluster
// substrates can ship them to remote workers.
type TrainTask struct {
	// Params holds the trainer parameters for this worker: the caller's
	// parameters merged with the job's network parameters and this
	// worker's num_threads override.
	Params map[string]any `json:"params"`

	// Parts lists the partitions resident on this worker, concatenated
	// into single buffers before the trainer is invoked.
	Parts []Part `json:"parts"`

	// Network is this worker's view of the job topology. Only
	// LocalListenPort differs between tasks of one job.
	Network NetworkParams `json:"network"`

	// ReturnModel instructs the result-bearing worker to return its
	// trained model. All other workers train and discard.
	ReturnModel bool `json:"return_model"`
}

// PredictTask describes the application of a trained model to one partition.
//
// The model itself travels out of band: in-process substrates pass it by
// reference, remote substrates serialize it via Model.MarshalBinary and
// rehydrate with TrainerFactory.LoadModel. NumClasses is carried in the
// task so the zero-row short-circuit never has to touch the model.
type PredictTask struct {
	// Data references the partition to predict on.
	Data Handle `json:"data"`

	// Proba selects class-probability output (one row of probabilities
	// per input row) instead of point predictions.
	Proba bool `json:"proba"`

	// NumClasses is the model's class count, used to shape empty and
	// probability results.
	NumClasses int `json:"num_classes,omitempty"`
}
