package types

// Handle is an opaque reference to a lazily-materialized chunk of data
// resident somewhere in the cluster.
//
// Handles are minted by the dataset splitters and resolved to physical
// locations by the cluster substrate. The orchestration layer never
// dereferences a handle itself; only the worker holding the chunk does.
type Handle struct {
	// Key uniquely identifies the chunk within a job.
	Key string `json:"key"`
}

// IsZero reports whether the handle is the zero value (no chunk referenced).
func (h Handle) IsZero() bool { return h.Key == "" }

// Part groups the co-indexed data, label, and optional weight handles of
// one partition.
//
// Invariant: the three handles always refer to chunks with identical row
// counts. The splitter enforces co-indexing at construction time; a
// violation discovered later surfaces as ErrShapeMismatch inside the
// owning worker's task.
type Part struct {
	// Data references the feature chunk.
	Data Handle `json:"data"`

	// Label references the label chunk.
	Label Handle `json:"label"`

	// Weight references the optional sample-weight chunk.
	// Zero value when the dataset has no weights.
	Weight Handle `json:"weight,omitzero"`
}

// HasWeight reports whether the partition carries a sample-weight chunk.
func (p Part) HasWeight() bool { return !p.Weight.IsZero() }

// Handles returns the non-zero handles of the partition in data, label,
// weight order.
func (p Part) Handles() []Handle {
	handles := []Handle{p.Data, p.Label}
	if p.HasWeight() {
		handles = append(handles, p.Weight)
	}

	return handles
}
