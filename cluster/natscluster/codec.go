package natscluster

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/distboost/types"
)

// chunkEnvelope is the wire form of a types.Chunk. The kind tag selects
// which concrete container is populated.
type chunkEnvelope struct {
	Kind   string        `json:"kind"`
	Matrix *types.Matrix `json:"matrix,omitempty"`
	Vector *types.Vector `json:"vector,omitempty"`
	Frame  *types.Frame  `json:"frame,omitempty"`
}

// wrapChunk converts a chunk to its wire form.
func wrapChunk(chunk types.Chunk) (*chunkEnvelope, error) {
	switch c := chunk.(type) {
	case *types.Matrix:
		return &chunkEnvelope{Kind: "matrix", Matrix: c}, nil
	case *types.Vector:
		return &chunkEnvelope{Kind: "vector", Vector: c}, nil
	case *types.Frame:
		return &chunkEnvelope{Kind: "frame", Frame: c}, nil
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedChunk, chunk)
	}
}

// unwrapChunk converts a wire envelope back to a chunk.
func unwrapChunk(env *chunkEnvelope) (types.Chunk, error) {
	switch env.Kind {
	case "matrix":
		if env.Matrix != nil {
			return env.Matrix, nil
		}
	case "vector":
		if env.Vector != nil {
			return env.Vector, nil
		}
	case "frame":
		if env.Frame != nil {
			return env.Frame, nil
		}
	}

	return nil, fmt.Errorf("%w: malformed chunk envelope kind %q", types.ErrUnsupportedChunk, env.Kind)
}

// scatterRequest places one chunk on a worker's store.
type scatterRequest struct {
	Handle types.Handle   `json:"handle"`
	Chunk  *chunkEnvelope `json:"chunk"`
}

// trainRequest carries one worker's training task.
type trainRequest struct {
	Task types.TrainTask `json:"task"`
}

// trainReply carries the serialized model from the result-bearing worker.
// Model is empty for non-result-bearing workers.
type trainReply struct {
	Model []byte `json:"model,omitempty"`
	Error string `json:"error,omitempty"`
}

// predictRequest carries one partition's prediction task plus the
// serialized model to rehydrate on the worker.
type predictRequest struct {
	Task  types.PredictTask `json:"task"`
	Model []byte            `json:"model"`
}

// predictReply carries one partition's prediction result.
type predictReply struct {
	Chunk *chunkEnvelope `json:"chunk,omitempty"`
	Error string         `json:"error,omitempty"`
}

// statusReply acknowledges a request with no payload.
type statusReply struct {
	Error string `json:"error,omitempty"`
}

// workerEntry is the registry record a worker agent heartbeats into the
// workers KV bucket.
type workerEntry struct {
	Addr  string `json:"addr"`
	Cores int    `json:"cores"`
}

// encode marshals a wire message, panicking only on programmer error
// (all wire types are marshalable by construction).
func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("natscluster: failed to marshal %T: %v", v, err))
	}

	return data
}

// decodeInto unmarshals a wire message.
func decodeInto(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed wire message: %w", err)
	}

	return nil
}

// normalizeParams restores integer-valued trainer parameters after a JSON
// round-trip. encoding/json decodes every number as float64; trainers
// expect parameters like num_threads and local_listen_port as integers.
func normalizeParams(params map[string]any) map[string]any {
	for k, v := range params {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			params[k] = int(f)
		}
	}

	return params
}

// subjectID converts a worker address to a token safe for NATS subjects
// and KV keys.
func subjectID(addr string) string {
	replacer := strings.NewReplacer("://", "-", ":", "-", "/", "-", ".", "_", " ", "-", "*", "-", ">", "-")

	return replacer.Replace(addr)
}
