package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/distboost/types"
)

func TestEmptyPrediction(t *testing.T) {
	frame := &types.Frame{Columns: []string{"a"}, Index: []int64{}, Values: []float64{}}
	matrix := &types.Matrix{Cols: 1, Values: []float64{}}

	t.Run("frame point", func(t *testing.T) {
		out, err := EmptyPrediction(frame, false, 1)
		require.NoError(t, err)

		v := out.(*types.Vector)
		require.Equal(t, PredictionName, v.Name)
		require.NotNil(t, v.Index)
		require.Equal(t, 0, v.NumRows())
	})

	t.Run("frame proba", func(t *testing.T) {
		out, err := EmptyPrediction(frame, true, 3)
		require.NoError(t, err)

		f := out.(*types.Frame)
		require.Equal(t, []string{"class_0", "class_1", "class_2"}, f.Columns)
		require.Equal(t, 0, f.NumRows())
	})

	t.Run("matrix point", func(t *testing.T) {
		out, err := EmptyPrediction(matrix, false, 1)
		require.NoError(t, err)
		require.Equal(t, 0, out.(*types.Vector).NumRows())
	})

	t.Run("matrix proba keeps class width", func(t *testing.T) {
		out, err := EmptyPrediction(matrix, true, 3)
		require.NoError(t, err)
		require.Equal(t, 3, out.(*types.Matrix).Cols)
	})

	t.Run("unsupported input", func(t *testing.T) {
		_, err := EmptyPrediction(&types.Vector{}, false, 1)
		require.ErrorIs(t, err, types.ErrUnsupportedChunk)
	})
}

func TestShapePrediction(t *testing.T) {
	frame := &types.Frame{Columns: []string{"a"}, Index: []int64{7, 8}, Values: []float64{1, 2}}
	matrix := &types.Matrix{Cols: 1, Values: []float64{1, 2}}

	t.Run("frame in vector out carries index", func(t *testing.T) {
		out, err := ShapePrediction(frame, &types.Vector{Values: []float64{0.5, 0.6}}, false, 1)
		require.NoError(t, err)

		v := out.(*types.Vector)
		require.Equal(t, PredictionName, v.Name)
		require.Equal(t, []int64{7, 8}, v.Index)
		require.Equal(t, []float64{0.5, 0.6}, v.Values)
	})

	t.Run("frame in proba out carries index and class columns", func(t *testing.T) {
		raw := &types.Matrix{Cols: 2, Values: []float64{0.4, 0.6, 0.7, 0.3}}
		out, err := ShapePrediction(frame, raw, true, 2)
		require.NoError(t, err)

		f := out.(*types.Frame)
		require.Equal(t, []string{"class_0", "class_1"}, f.Columns)
		require.Equal(t, []int64{7, 8}, f.Index)
		require.Equal(t, raw.Values, f.Values)
	})

	t.Run("matrix in passes raw through", func(t *testing.T) {
		raw := &types.Vector{Values: []float64{0.5, 0.6}}
		out, err := ShapePrediction(matrix, raw, false, 1)
		require.NoError(t, err)
		require.Same(t, raw, out)
	})

	t.Run("proba output must be a matrix", func(t *testing.T) {
		_, err := ShapePrediction(matrix, &types.Vector{Values: []float64{1, 2}}, true, 2)
		require.ErrorIs(t, err, types.ErrShapeMismatch)
	})

	t.Run("proba class width mismatch", func(t *testing.T) {
		raw := &types.Matrix{Cols: 3, Values: make([]float64, 6)}
		_, err := ShapePrediction(matrix, raw, true, 2)
		require.ErrorIs(t, err, types.ErrShapeMismatch)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := ShapePrediction(matrix, &types.Vector{Values: []float64{1}}, false, 1)
		require.ErrorIs(t, err, types.ErrShapeMismatch)
	})

	t.Run("unsupported input", func(t *testing.T) {
		_, err := ShapePrediction(&types.Vector{}, &types.Vector{}, false, 1)
		require.ErrorIs(t, err, types.ErrUnsupportedChunk)
	})
}
