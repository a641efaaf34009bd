package types

// ChunkKind identifies the row-container family of a Chunk.
//
// The kind determines how chunks concatenate and what shape family
// prediction results take (tabular in, tabular out).
type ChunkKind int

const (
	// KindMatrix is a dense row-major numeric matrix.
	KindMatrix ChunkKind = iota

	// KindVector is a one-dimensional numeric column.
	KindVector

	// KindFrame is a tabular container with named columns and a row index.
	KindFrame
)

// String returns the chunk kind name for logging and error messages.
func (k ChunkKind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindVector:
		return "vector"
	case KindFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// Chunk is a row container holding a contiguous shard of a dataset.
//
// Chunks are value objects: they carry concrete rows, not references.
// The supported implementations are Matrix, Vector, and Frame; any other
// implementation is rejected with ErrUnsupportedChunk by concatenation
// and prediction shaping.
type Chunk interface {
	// Kind reports the row-container family of the chunk.
	Kind() ChunkKind

	// NumRows reports the number of rows in the chunk.
	NumRows() int
}

// Matrix is a dense row-major feature matrix.
type Matrix struct {
	// Cols is the number of feature columns.
	Cols int `json:"cols"`

	// Values holds rows*Cols elements in row-major order.
	Values []float64 `json:"values"`
}

var _ Chunk = (*Matrix)(nil)

// Kind reports KindMatrix.
func (m *Matrix) Kind() ChunkKind { return KindMatrix }

// NumRows reports the number of rows (len(Values) / Cols, 0 for an empty matrix).
func (m *Matrix) NumRows() int {
	if m.Cols == 0 {
		return 0
	}

	return len(m.Values) / m.Cols
}

// Row returns the i-th row as a slice into the underlying storage.
func (m *Matrix) Row(i int) []float64 {
	return m.Values[i*m.Cols : (i+1)*m.Cols]
}

// Vector is a one-dimensional numeric column (labels, weights, or point predictions).
type Vector struct {
	// Name is an optional column name (e.g. "predictions").
	Name string `json:"name,omitempty"`

	// Index holds optional row labels carried over from a Frame input.
	// When present, len(Index) == len(Values).
	Index []int64 `json:"index,omitempty"`

	// Values holds one element per row.
	Values []float64 `json:"values"`
}

var _ Chunk = (*Vector)(nil)

// Kind reports KindVector.
func (v *Vector) Kind() ChunkKind { return KindVector }

// NumRows reports len(Values).
func (v *Vector) NumRows() int { return len(v.Values) }

// Frame is a tabular row container with named columns and a row index.
type Frame struct {
	// Columns holds the column names.
	Columns []string `json:"columns"`

	// Index holds one row label per row.
	Index []int64 `json:"index"`

	// Values holds len(Index)*len(Columns) elements in row-major order.
	Values []float64 `json:"values"`
}

var _ Chunk = (*Frame)(nil)

// Kind reports KindFrame.
func (f *Frame) Kind() ChunkKind { return KindFrame }

// NumRows reports len(Index).
func (f *Frame) NumRows() int { return len(f.Index) }

// Row returns the i-th row as a slice into the underlying storage.
func (f *Frame) Row(i int) []float64 {
	n := len(f.Columns)

	return f.Values[i*n : (i+1)*n]
}
