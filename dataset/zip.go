package dataset

import (
	"fmt"

	"github.com/arloliu/distboost/types"
)

// Zip groups co-indexed data, label, and optional weight handles into
// partition tuples.
//
// The caller guarantees that the underlying collections already share
// identical chunk boundaries; Zip only enforces that the handle sequences
// have matching lengths. A length mismatch is a caller error and returns
// types.ErrShapeMismatch. Row-count mismatches inside a partition surface
// later, inside the owning worker's task.
//
// Parameters:
//   - data: Ordered feature chunk handles
//   - label: Ordered label chunk handles, co-indexed with data
//   - weight: Ordered sample-weight chunk handles, or nil for unweighted training
//
// Returns:
//   - []types.Part: One partition tuple per chunk, preserving order
//   - error: types.ErrShapeMismatch on length mismatch
func Zip(data, label, weight []types.Handle) ([]types.Part, error) {
	if len(label) != len(data) {
		return nil, fmt.Errorf("%w: %d data partitions vs %d label partitions",
			types.ErrShapeMismatch, len(data), len(label))
	}
	if weight != nil && len(weight) != len(data) {
		return nil, fmt.Errorf("%w: %d data partitions vs %d weight partitions",
			types.ErrShapeMismatch, len(data), len(weight))
	}

	parts := make([]types.Part, len(data))
	for i := range data {
		parts[i] = types.Part{Data: data[i], Label: label[i]}
		if weight != nil {
			parts[i].Weight = weight[i]
		}
	}

	return parts, nil
}
