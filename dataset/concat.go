package dataset

import (
	"fmt"

	"github.com/arloliu/distboost/types"
)

// Concat concatenates row containers of the same kind into a single buffer.
//
// Supported kinds are dense matrices, vectors, and tabular frames. Chunks of
// mixed kinds, matrices with differing column counts, or frames with
// differing column sets return types.ErrShapeMismatch. A chunk of any other
// implementation returns types.ErrUnsupportedChunk.
//
// Parameters:
//   - chunks: Non-empty ordered chunk list
//
// Returns:
//   - types.Chunk: Single chunk holding all rows in input order
//   - error: Shape or type error, nil on success
func Concat(chunks []types.Chunk) (types.Chunk, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks to concatenate", types.ErrShapeMismatch)
	}
	if len(chunks) == 1 {
		// Passthrough still rejects foreign Chunk implementations.
		switch chunks[0].(type) {
		case *types.Matrix, *types.Vector, *types.Frame:
			return chunks[0], nil
		default:
			return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedChunk, chunks[0])
		}
	}

	switch first := chunks[0].(type) {
	case *types.Matrix:
		return concatMatrices(first, chunks)
	case *types.Vector:
		return concatVectors(first, chunks)
	case *types.Frame:
		return concatFrames(first, chunks)
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedChunk, chunks[0])
	}
}

func concatMatrices(first *types.Matrix, chunks []types.Chunk) (types.Chunk, error) {
	total := 0
	for _, c := range chunks {
		m, ok := c.(*types.Matrix)
		if !ok {
			return nil, fmt.Errorf("%w: mixed chunk kinds (%s and %s)",
				types.ErrShapeMismatch, first.Kind(), c.Kind())
		}
		if m.Cols != first.Cols {
			return nil, fmt.Errorf("%w: matrix column counts differ (%d vs %d)",
				types.ErrShapeMismatch, first.Cols, m.Cols)
		}
		total += len(m.Values)
	}

	out := &types.Matrix{Cols: first.Cols, Values: make([]float64, 0, total)}
	for _, c := range chunks {
		out.Values = append(out.Values, c.(*types.Matrix).Values...)
	}

	return out, nil
}

func concatVectors(first *types.Vector, chunks []types.Chunk) (types.Chunk, error) {
	total := 0
	indexed := first.Index != nil
	for _, c := range chunks {
		v, ok := c.(*types.Vector)
		if !ok {
			return nil, fmt.Errorf("%w: mixed chunk kinds (%s and %s)",
				types.ErrShapeMismatch, first.Kind(), c.Kind())
		}
		total += len(v.Values)
	}

	out := &types.Vector{Name: first.Name, Values: make([]float64, 0, total)}
	if indexed {
		out.Index = make([]int64, 0, total)
	}
	for _, c := range chunks {
		v := c.(*types.Vector)
		out.Values = append(out.Values, v.Values...)
		if indexed {
			out.Index = append(out.Index, v.Index...)
		}
	}

	return out, nil
}

func concatFrames(first *types.Frame, chunks []types.Chunk) (types.Chunk, error) {
	totalRows := 0
	for _, c := range chunks {
		f, ok := c.(*types.Frame)
		if !ok {
			return nil, fmt.Errorf("%w: mixed chunk kinds (%s and %s)",
				types.ErrShapeMismatch, first.Kind(), c.Kind())
		}
		if !sameColumns(first.Columns, f.Columns) {
			return nil, fmt.Errorf("%w: frame columns differ", types.ErrShapeMismatch)
		}
		totalRows += f.NumRows()
	}

	cols := len(first.Columns)
	out := &types.Frame{
		Columns: first.Columns,
		Index:   make([]int64, 0, totalRows),
		Values:  make([]float64, 0, totalRows*cols),
	}
	for _, c := range chunks {
		f := c.(*types.Frame)
		out.Index = append(out.Index, f.Index...)
		out.Values = append(out.Values, f.Values...)
	}

	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
