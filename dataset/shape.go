package dataset

import (
	"fmt"

	"github.com/arloliu/distboost/types"
)

// PredictionName is the column name given to point-prediction vectors
// produced from tabular inputs.
const PredictionName = "predictions"

// EmptyPrediction returns a zero-row prediction result of the shape family
// matching the input chunk, without any model involvement.
//
// Parameters:
//   - in: The zero-row input chunk
//   - proba: true for class-probability output shape
//   - numClasses: Class count used to shape probability results
//
// Returns:
//   - types.Chunk: Empty result of the correct type and declared width
//   - error: types.ErrUnsupportedChunk for unknown row containers
func EmptyPrediction(in types.Chunk, proba bool, numClasses int) (types.Chunk, error) {
	switch in.(type) {
	case *types.Frame:
		if proba {
			return &types.Frame{Columns: classColumns(numClasses), Index: []int64{}, Values: []float64{}}, nil
		}

		return &types.Vector{Name: PredictionName, Index: []int64{}, Values: []float64{}}, nil
	case *types.Matrix:
		if proba {
			return &types.Matrix{Cols: numClasses, Values: []float64{}}, nil
		}

		return &types.Vector{Values: []float64{}}, nil
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedChunk, in)
	}
}

// ShapePrediction converts a raw model output into the result family of the
// input chunk: tabular in, tabular out; array in, array out.
//
// For tabular inputs the row index is carried over so downstream bookkeeping
// can align predictions with source rows. The raw output width must match
// the declared proba flag: a probability matrix for proba, a vector of point
// predictions otherwise.
//
// Parameters:
//   - in: The input chunk the model predicted on
//   - raw: The model's raw output (Vector for point, Matrix for proba)
//   - proba: true when raw holds class probabilities
//
// Returns:
//   - types.Chunk: Result in the input's shape family
//   - error: Shape or type error, nil on success
func ShapePrediction(in, raw types.Chunk, proba bool, numClasses int) (types.Chunk, error) {
	if err := checkPredictionShape(in, raw, proba, numClasses); err != nil {
		return nil, err
	}

	frame, tabular := in.(*types.Frame)
	if !tabular {
		return raw, nil
	}

	if proba {
		m := raw.(*types.Matrix)

		return &types.Frame{Columns: classColumns(m.Cols), Index: frame.Index, Values: m.Values}, nil
	}

	v := raw.(*types.Vector)

	return &types.Vector{Name: PredictionName, Index: frame.Index, Values: v.Values}, nil
}

// checkPredictionShape validates that the model's raw output matches the
// declared output flag and the input row count.
func checkPredictionShape(in, raw types.Chunk, proba bool, numClasses int) error {
	switch in.(type) {
	case *types.Frame, *types.Matrix:
	default:
		return fmt.Errorf("%w: %T", types.ErrUnsupportedChunk, in)
	}

	if proba {
		m, ok := raw.(*types.Matrix)
		if !ok {
			return fmt.Errorf("%w: probability output must be a matrix, got %T",
				types.ErrShapeMismatch, raw)
		}
		if m.Cols != numClasses {
			return fmt.Errorf("%w: probability output has %d columns, model declares %d classes",
				types.ErrShapeMismatch, m.Cols, numClasses)
		}
	} else if _, ok := raw.(*types.Vector); !ok {
		return fmt.Errorf("%w: point-prediction output must be a vector, got %T",
			types.ErrShapeMismatch, raw)
	}

	if raw.NumRows() != in.NumRows() {
		return fmt.Errorf("%w: model returned %d rows for %d input rows",
			types.ErrShapeMismatch, raw.NumRows(), in.NumRows())
	}

	return nil
}

func classColumns(numClasses int) []string {
	cols := make([]string, numClasses)
	for i := range cols {
		cols[i] = fmt.Sprintf("class_%d", i)
	}

	return cols
}
