package inproc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/distboost/internal/logging"
	dbtest "github.com/arloliu/distboost/testing"
	"github.com/arloliu/distboost/types"
)

func newCluster(t *testing.T) *Cluster {
	t.Helper()

	return New(dbtest.NewFakeFactory(1), logging.NewNop())
}

func TestScatterAndLocations(t *testing.T) {
	cluster := newCluster(t)
	cluster.AddWorker("w1", 4)
	cluster.AddWorker("w2", 2)

	ctx := t.Context()
	h := types.Handle{Key: "d0"}
	chunk := &types.Matrix{Cols: 1, Values: []float64{1}}

	t.Run("scatter to unknown worker", func(t *testing.T) {
		err := cluster.Scatter(ctx, "w9", h, chunk)
		require.ErrorIs(t, err, types.ErrWorkerUnavailable)
	})

	t.Run("materialize fails before scatter", func(t *testing.T) {
		require.Error(t, cluster.Materialize(ctx, []types.Handle{h}))
	})

	t.Run("who has after scatter", func(t *testing.T) {
		require.NoError(t, cluster.Scatter(ctx, "w2", h, chunk))
		require.NoError(t, cluster.Materialize(ctx, []types.Handle{h}))

		locations, err := cluster.WhoHas(ctx, []types.Handle{h})
		require.NoError(t, err)
		require.Equal(t, []string{"w2"}, locations["d0"])
	})

	t.Run("multi-held chunk reported in registration order", func(t *testing.T) {
		require.NoError(t, cluster.Scatter(ctx, "w1", h, chunk))

		locations, err := cluster.WhoHas(ctx, []types.Handle{h})
		require.NoError(t, err)
		require.Equal(t, []string{"w1", "w2"}, locations["d0"])
	})
}

func TestCoreCounts(t *testing.T) {
	cluster := newCluster(t)
	cluster.AddWorker("w1", 4)
	cluster.AddWorker("w2", 2)

	counts, err := cluster.CoreCounts(t.Context())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"w1": 4, "w2": 2}, counts)

	// Re-adding replaces the core count but keeps the store.
	require.NoError(t, cluster.Scatter(t.Context(), "w1", types.Handle{Key: "k"}, &types.Vector{Values: []float64{1}}))
	cluster.AddWorker("w1", 8)

	counts, err = cluster.CoreCounts(t.Context())
	require.NoError(t, err)
	require.Equal(t, 8, counts["w1"])
	require.NotNil(t, cluster.Store("w1"))

	_, err = cluster.Store("w1").Get(t.Context(), types.Handle{Key: "k"})
	require.NoError(t, err)
}

func TestSubmitTrain(t *testing.T) {
	cluster := newCluster(t)
	cluster.AddWorker("w1", 4)

	ctx := t.Context()
	require.NoError(t, cluster.Scatter(ctx, "w1", types.Handle{Key: "d0"}, &types.Matrix{Cols: 1, Values: []float64{1, 2}}))
	require.NoError(t, cluster.Scatter(ctx, "w1", types.Handle{Key: "l0"}, &types.Vector{Values: []float64{1, 0}}))

	task := types.TrainTask{
		Parts:       []types.Part{{Data: types.Handle{Key: "d0"}, Label: types.Handle{Key: "l0"}}},
		Network:     types.NetworkParams{Machines: "w1:12400", LocalListenPort: 12400, TimeOut: 120, NumMachines: 1},
		ReturnModel: true,
	}

	ch, err := cluster.SubmitTrain(ctx, "w1", task)
	require.NoError(t, err)

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		require.NotNil(t, res.Model)
		require.InDelta(t, 0.5, res.Model.(*dbtest.FakeModel).Mean, 1e-9)
	case <-time.After(5 * time.Second):
		t.Fatal("train result not delivered")
	}

	_, err = cluster.SubmitTrain(ctx, "w9", task)
	require.ErrorIs(t, err, types.ErrWorkerUnavailable)
}

func TestSubmitPredict(t *testing.T) {
	cluster := newCluster(t)
	cluster.AddWorker("w1", 4)

	ctx := t.Context()
	require.NoError(t, cluster.Scatter(ctx, "w1", types.Handle{Key: "d0"}, &types.Matrix{Cols: 1, Values: []float64{1, 2, 3}}))

	model := &dbtest.FakeModel{Mean: 0.25, Classes: 1}
	ch, err := cluster.SubmitPredict(ctx, "w1", model, types.PredictTask{
		Data:       types.Handle{Key: "d0"},
		NumClasses: 1,
	})
	require.NoError(t, err)

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		require.Equal(t, []float64{0.25, 0.25, 0.25}, res.Chunk.(*types.Vector).Values)
	case <-time.After(5 * time.Second):
		t.Fatal("predict result not delivered")
	}
}
