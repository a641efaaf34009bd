package dataset

import (
	"fmt"

	"github.com/arloliu/distboost/types"
	"github.com/zeebo/xxh3"
)

// mintHandle derives a stable handle key for one chunk of a named collection.
//
// The key is stable across processes for the same collection name, chunk
// index, and row range, so re-splitting the same dataset yields the same
// handles.
func mintHandle(name string, index, startRow, rows int) types.Handle {
	h := xxh3.HashString(fmt.Sprintf("%s/%d/%d+%d", name, index, startRow, rows))

	return types.Handle{Key: fmt.Sprintf("%s-%d-%016x", name, index, h)}
}

// SplitMatrix splits a dense feature matrix into row chunks of at most
// chunkRows rows and mints one handle per chunk.
//
// Purely structural: chunks share the matrix's underlying storage where
// possible and no data is copied across the network.
//
// Parameters:
//   - name: Collection name used for stable handle keys
//   - m: Matrix to split
//   - chunkRows: Maximum rows per chunk (must be > 0)
//
// Returns:
//   - []types.Handle: Ordered chunk handles
//   - []types.Chunk: Chunks co-indexed with the handles
func SplitMatrix(name string, m *types.Matrix, chunkRows int) ([]types.Handle, []types.Chunk) {
	rows := m.NumRows()
	handles := make([]types.Handle, 0, (rows+chunkRows-1)/chunkRows)
	chunks := make([]types.Chunk, 0, cap(handles))

	for start, i := 0, 0; start < rows; start, i = start+chunkRows, i+1 {
		end := min(start+chunkRows, rows)
		chunk := &types.Matrix{
			Cols:   m.Cols,
			Values: m.Values[start*m.Cols : end*m.Cols],
		}
		handles = append(handles, mintHandle(name, i, start, end-start))
		chunks = append(chunks, chunk)
	}

	return handles, chunks
}

// SplitVector splits a label or weight column into row chunks of at most
// chunkRows rows, mirroring SplitMatrix boundaries for the same chunkRows.
//
// Parameters:
//   - name: Collection name used for stable handle keys
//   - v: Vector to split
//   - chunkRows: Maximum rows per chunk (must be > 0)
//
// Returns:
//   - []types.Handle: Ordered chunk handles
//   - []types.Chunk: Chunks co-indexed with the handles
func SplitVector(name string, v *types.Vector, chunkRows int) ([]types.Handle, []types.Chunk) {
	rows := v.NumRows()
	handles := make([]types.Handle, 0, (rows+chunkRows-1)/chunkRows)
	chunks := make([]types.Chunk, 0, cap(handles))

	for start, i := 0, 0; start < rows; start, i = start+chunkRows, i+1 {
		end := min(start+chunkRows, rows)
		chunk := &types.Vector{
			Name:   v.Name,
			Values: v.Values[start:end],
		}
		if v.Index != nil {
			chunk.Index = v.Index[start:end]
		}
		handles = append(handles, mintHandle(name, i, start, end-start))
		chunks = append(chunks, chunk)
	}

	return handles, chunks
}

// SplitFrame splits a tabular frame into row chunks of at most chunkRows
// rows, preserving column names and row index.
//
// Parameters:
//   - name: Collection name used for stable handle keys
//   - f: Frame to split
//   - chunkRows: Maximum rows per chunk (must be > 0)
//
// Returns:
//   - []types.Handle: Ordered chunk handles
//   - []types.Chunk: Chunks co-indexed with the handles
func SplitFrame(name string, f *types.Frame, chunkRows int) ([]types.Handle, []types.Chunk) {
	rows := f.NumRows()
	cols := len(f.Columns)
	handles := make([]types.Handle, 0, (rows+chunkRows-1)/chunkRows)
	chunks := make([]types.Chunk, 0, cap(handles))

	for start, i := 0, 0; start < rows; start, i = start+chunkRows, i+1 {
		end := min(start+chunkRows, rows)
		chunk := &types.Frame{
			Columns: f.Columns,
			Index:   f.Index[start:end],
			Values:  f.Values[start*cols : end*cols],
		}
		handles = append(handles, mintHandle(name, i, start, end-start))
		chunks = append(chunks, chunk)
	}

	return handles, chunks
}
