package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkKinds(t *testing.T) {
	require.Equal(t, "matrix", KindMatrix.String())
	require.Equal(t, "vector", KindVector.String())
	require.Equal(t, "frame", KindFrame.String())
	require.Equal(t, "unknown", ChunkKind(99).String())
}

func TestMatrix(t *testing.T) {
	m := &Matrix{Cols: 2, Values: []float64{1, 2, 3, 4, 5, 6}}

	require.Equal(t, KindMatrix, m.Kind())
	require.Equal(t, 3, m.NumRows())
	require.Equal(t, []float64{3, 4}, m.Row(1))

	empty := &Matrix{}
	require.Equal(t, 0, empty.NumRows())
}

func TestFrame(t *testing.T) {
	f := &Frame{Columns: []string{"a", "b"}, Index: []int64{10, 11}, Values: []float64{1, 2, 3, 4}}

	require.Equal(t, KindFrame, f.Kind())
	require.Equal(t, 2, f.NumRows())
	require.Equal(t, []float64{3, 4}, f.Row(1))
}

func TestPart(t *testing.T) {
	unweighted := Part{Data: Handle{Key: "d"}, Label: Handle{Key: "l"}}
	require.False(t, unweighted.HasWeight())
	require.Equal(t, []Handle{{Key: "d"}, {Key: "l"}}, unweighted.Handles())

	weighted := Part{Data: Handle{Key: "d"}, Label: Handle{Key: "l"}, Weight: Handle{Key: "w"}}
	require.True(t, weighted.HasWeight())
	require.Len(t, weighted.Handles(), 3)
}

func TestNetworkParamsMerge(t *testing.T) {
	p := NetworkParams{
		Machines:        "hostA:12400,hostB:12401",
		LocalListenPort: 12401,
		TimeOut:         120,
		NumMachines:     2,
	}

	params := map[string]any{"objective": "binary", "time_out": 5}
	merged := p.Merge(params)

	require.Equal(t, "binary", merged["objective"])
	require.Equal(t, "hostA:12400,hostB:12401", merged["machines"])
	require.Equal(t, 12401, merged["local_listen_port"])
	require.Equal(t, 2, merged["num_machines"])

	// Network parameters win over caller values under the same keys.
	require.Equal(t, 120, merged["time_out"])

	// Input map untouched.
	require.Equal(t, 5, params["time_out"])
	require.NotContains(t, params, "machines")
}
