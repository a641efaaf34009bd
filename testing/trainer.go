package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/arloliu/distboost/types"
)

// FakeFactory is a trainer factory fake for exercising the orchestration
// layer without a real boosting implementation.
//
// The default Fit trains a mean predictor over the partition's labels. Set
// FitFunc to override training behavior (blocking, failing, inspecting
// inputs). The factory records the parameter map of every trainer it
// creates and counts network releases, so tests can assert on the network
// contract without reaching into the trainer.
//
// Safe for concurrent use; workers create trainers from multiple goroutines.
type FakeFactory struct {
	// Classes is the class count reported by trained models. Defaults to 1
	// (regression).
	Classes int

	// FitFunc overrides the default mean-predictor training when non-nil.
	FitFunc func(ctx context.Context, data, label, weight types.Chunk) (types.Model, error)

	mu        sync.Mutex
	created   []map[string]any
	freeCalls int
}

var _ types.TrainerFactory = (*FakeFactory)(nil)

// NewFakeFactory creates a factory whose models report the given class count.
func NewFakeFactory(classes int) *FakeFactory {
	if classes < 1 {
		classes = 1
	}

	return &FakeFactory{Classes: classes}
}

// New creates a fake trainer and records its parameter map.
func (f *FakeFactory) New(params map[string]any) (types.Trainer, error) {
	f.mu.Lock()
	f.created = append(f.created, params)
	f.mu.Unlock()

	return &fakeTrainer{factory: f}, nil
}

// LoadModel rehydrates a FakeModel serialized with MarshalBinary.
func (f *FakeFactory) LoadModel(data []byte) (types.Model, error) {
	var model FakeModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fake model: %w", err)
	}

	return &model, nil
}

// CreatedParams returns the parameter map of every trainer created so far,
// in creation order.
func (f *FakeFactory) CreatedParams() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, len(f.created))
	copy(out, f.created)

	return out
}

// FreeNetworkCalls returns how many times trainers released their network.
func (f *FakeFactory) FreeNetworkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.freeCalls
}

type fakeTrainer struct {
	factory *FakeFactory
}

var _ types.Trainer = (*fakeTrainer)(nil)

func (tr *fakeTrainer) Fit(ctx context.Context, data, label, weight types.Chunk) (types.Model, error) {
	if tr.factory.FitFunc != nil {
		return tr.factory.FitFunc(ctx, data, label, weight)
	}

	return &FakeModel{Mean: chunkMean(label), Classes: tr.factory.Classes}, nil
}

func (tr *fakeTrainer) FreeNetwork() error {
	tr.factory.mu.Lock()
	tr.factory.freeCalls++
	tr.factory.mu.Unlock()

	return nil
}

// chunkMean averages the values of a label chunk. Returns 0 for empty or
// unrecognized chunks.
func chunkMean(chunk types.Chunk) float64 {
	var values []float64
	switch c := chunk.(type) {
	case *types.Vector:
		values = c.Values
	case *types.Matrix:
		values = c.Values
	case *types.Frame:
		values = c.Values
	}
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// FakeModel is the model produced by the fake factory's default training:
// point predictions are the label mean, class probabilities are uniform.
type FakeModel struct {
	Mean    float64 `json:"mean"`
	Classes int     `json:"classes"`
}

var _ types.Model = (*FakeModel)(nil)

// Predict returns the label mean for every input row.
func (m *FakeModel) Predict(_ context.Context, data types.Chunk) (types.Chunk, error) {
	values := make([]float64, data.NumRows())
	for i := range values {
		values[i] = m.Mean
	}

	return &types.Vector{Values: values}, nil
}

// PredictProba returns uniform class probabilities for every input row.
func (m *FakeModel) PredictProba(_ context.Context, data types.Chunk) (types.Chunk, error) {
	rows := data.NumRows()
	values := make([]float64, rows*m.Classes)
	for i := range values {
		values[i] = 1.0 / float64(m.Classes)
	}

	return &types.Matrix{Cols: m.Classes, Values: values}, nil
}

// NumClasses reports the class count (1 for regression).
func (m *FakeModel) NumClasses() int {
	return m.Classes
}

// MarshalBinary serializes the model as JSON.
func (m *FakeModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}
