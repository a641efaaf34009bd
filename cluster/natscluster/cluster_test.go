package natscluster

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	dbtest "github.com/arloliu/distboost/testing"
	"github.com/arloliu/distboost/types"
)

const (
	addrA = "tcp://hostA:8786"
	addrB = "tcp://hostB:8786"
)

// startAgent starts a worker agent and registers its shutdown.
func startAgent(t *testing.T, cfg Config, nc *nats.Conn, addr string, cores int, factory types.TrainerFactory) *Agent {
	t.Helper()

	agent, err := NewAgent(cfg, nc, addr, cores, factory, dbtest.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, agent.Start(t.Context()))
	t.Cleanup(func() {
		_ = agent.Stop(t.Context())
	})

	return agent
}

func TestAgentLifecycle(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)
	cfg := TestConfig()
	factory := dbtest.NewFakeFactory(1)

	agent, err := NewAgent(cfg, nc, addrA, 4, factory, dbtest.NewTestLogger(t))
	require.NoError(t, err)

	t.Run("stop before start", func(t *testing.T) {
		require.ErrorIs(t, agent.Stop(t.Context()), types.ErrAgentNotStarted)
	})

	t.Run("start and double start", func(t *testing.T) {
		require.NoError(t, agent.Start(t.Context()))
		require.ErrorIs(t, agent.Start(t.Context()), types.ErrAgentAlreadyStarted)
	})

	t.Run("registered after start", func(t *testing.T) {
		client, err := NewClient(t.Context(), cfg, nc, factory, dbtest.NewTestLogger(t))
		require.NoError(t, err)

		counts, err := client.CoreCounts(t.Context())
		require.NoError(t, err)
		require.Equal(t, map[string]int{addrA: 4}, counts)
	})

	t.Run("deregistered after stop", func(t *testing.T) {
		require.NoError(t, agent.Stop(t.Context()))

		client, err := NewClient(t.Context(), cfg, nc, factory, dbtest.NewTestLogger(t))
		require.NoError(t, err)

		counts, err := client.CoreCounts(t.Context())
		require.NoError(t, err)
		require.NotContains(t, counts, addrA)
	})
}

func TestNewAgentValidation(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)
	cfg := TestConfig()
	factory := dbtest.NewFakeFactory(1)
	logger := dbtest.NewTestLogger(t)

	_, err := NewAgent(cfg, nil, addrA, 4, factory, logger)
	require.ErrorIs(t, err, types.ErrClusterRequired)

	_, err = NewAgent(cfg, nc, addrA, 4, nil, logger)
	require.ErrorIs(t, err, types.ErrTrainerFactoryRequired)

	bad := TestConfig()
	bad.WorkerTTL = bad.HeartbeatInterval
	_, err = NewAgent(bad, nc, addrA, 4, factory, logger)
	require.Error(t, err)
}

func TestScatterAndPlacement(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)
	cfg := TestConfig()
	factory := dbtest.NewFakeFactory(1)

	startAgent(t, cfg, nc, addrA, 4, factory)
	startAgent(t, cfg, nc, addrB, 2, factory)

	client, err := NewClient(t.Context(), cfg, nc, factory, dbtest.NewTestLogger(t))
	require.NoError(t, err)

	ctx := t.Context()
	handle := types.Handle{Key: "d0"}
	chunk := &types.Matrix{Cols: 1, Values: []float64{1, 2}}

	t.Run("materialize times out on unknown chunk", func(t *testing.T) {
		short := cfg
		short.MaterializeTimeout = 300 * time.Millisecond
		shortClient, err := NewClient(ctx, short, nc, factory, dbtest.NewTestLogger(t))
		require.NoError(t, err)

		require.Error(t, shortClient.Materialize(ctx, []types.Handle{handle}))
	})

	t.Run("scatter registers location", func(t *testing.T) {
		require.NoError(t, client.Scatter(ctx, addrB, handle, chunk))
		require.NoError(t, client.Materialize(ctx, []types.Handle{handle}))

		locations, err := client.WhoHas(ctx, []types.Handle{handle})
		require.NoError(t, err)
		require.Equal(t, []string{addrB}, locations["d0"])
	})

	t.Run("multi-held chunk lists every holder", func(t *testing.T) {
		require.NoError(t, client.Scatter(ctx, addrA, handle, chunk))

		locations, err := client.WhoHas(ctx, []types.Handle{handle})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{addrA, addrB}, locations["d0"])
	})

	t.Run("scatter to unknown worker", func(t *testing.T) {
		short := cfg
		short.OperationTimeout = 300 * time.Millisecond
		shortClient, err := NewClient(ctx, short, nc, factory, dbtest.NewTestLogger(t))
		require.NoError(t, err)

		err = shortClient.Scatter(ctx, "tcp://ghost:1", handle, chunk)
		require.ErrorIs(t, err, types.ErrWorkerUnavailable)
	})
}

func TestTrainRoundTrip(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)
	cfg := TestConfig()
	factory := dbtest.NewFakeFactory(1)

	startAgent(t, cfg, nc, addrA, 4, factory)
	startAgent(t, cfg, nc, addrB, 2, factory)

	client, err := NewClient(t.Context(), cfg, nc, factory, dbtest.NewTestLogger(t))
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, client.Scatter(ctx, addrA, types.Handle{Key: "d0"}, &types.Matrix{Cols: 1, Values: []float64{1, 2}}))
	require.NoError(t, client.Scatter(ctx, addrA, types.Handle{Key: "l0"}, &types.Vector{Values: []float64{1, 0}}))
	require.NoError(t, client.Scatter(ctx, addrB, types.Handle{Key: "d1"}, &types.Matrix{Cols: 1, Values: []float64{3}}))
	require.NoError(t, client.Scatter(ctx, addrB, types.Handle{Key: "l1"}, &types.Vector{Values: []float64{1}}))

	task := func(worker string, returnModel bool, port int) types.TrainTask {
		key := "0"
		if worker == addrB {
			key = "1"
		}

		return types.TrainTask{
			Params: map[string]any{"objective": "binary", "num_threads": 4},
			Parts: []types.Part{{
				Data:  types.Handle{Key: "d" + key},
				Label: types.Handle{Key: "l" + key},
			}},
			Network: types.NetworkParams{
				Machines:        "hostA:12400,hostB:12401",
				LocalListenPort: port,
				TimeOut:         120,
				NumMachines:     2,
			},
			ReturnModel: returnModel,
		}
	}

	chA, err := client.SubmitTrain(ctx, addrA, task(addrA, true, 12400))
	require.NoError(t, err)
	chB, err := client.SubmitTrain(ctx, addrB, task(addrB, false, 12401))
	require.NoError(t, err)

	resA := <-chA
	require.NoError(t, resA.Err)
	require.NotNil(t, resA.Model)
	require.InDelta(t, 0.5, resA.Model.(*dbtest.FakeModel).Mean, 1e-9)

	resB := <-chB
	require.NoError(t, resB.Err)
	require.Nil(t, resB.Model)

	// Integer parameters survive the JSON transport.
	for _, params := range factory.CreatedParams() {
		require.Equal(t, 4, params["num_threads"])
		require.Equal(t, "hostA:12400,hostB:12401", params["machines"])
		require.Equal(t, 2, params["num_machines"])
	}
	require.Equal(t, 2, factory.FreeNetworkCalls())
}

func TestPredictRoundTrip(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)
	cfg := TestConfig()
	factory := dbtest.NewFakeFactory(2)

	startAgent(t, cfg, nc, addrA, 4, factory)

	client, err := NewClient(t.Context(), cfg, nc, factory, dbtest.NewTestLogger(t))
	require.NoError(t, err)

	ctx := t.Context()
	require.NoError(t, client.Scatter(ctx, addrA, types.Handle{Key: "p0"},
		&types.Frame{Columns: []string{"a"}, Index: []int64{0, 1}, Values: []float64{1, 2}}))
	require.NoError(t, client.Scatter(ctx, addrA, types.Handle{Key: "empty"},
		&types.Frame{Columns: []string{"a"}, Index: []int64{}, Values: []float64{}}))

	model := &dbtest.FakeModel{Mean: 0.5, Classes: 2}

	t.Run("point predictions", func(t *testing.T) {
		ch, err := client.SubmitPredict(ctx, addrA, model, types.PredictTask{
			Data:       types.Handle{Key: "p0"},
			NumClasses: 2,
		})
		require.NoError(t, err)

		res := <-ch
		require.NoError(t, res.Err)

		v := res.Chunk.(*types.Vector)
		require.Equal(t, []int64{0, 1}, v.Index)
		require.Equal(t, []float64{0.5, 0.5}, v.Values)
	})

	t.Run("probabilities", func(t *testing.T) {
		ch, err := client.SubmitPredict(ctx, addrA, model, types.PredictTask{
			Data:       types.Handle{Key: "p0"},
			Proba:      true,
			NumClasses: 2,
		})
		require.NoError(t, err)

		res := <-ch
		require.NoError(t, res.Err)

		f := res.Chunk.(*types.Frame)
		require.Equal(t, []string{"class_0", "class_1"}, f.Columns)
		require.Equal(t, 2, f.NumRows())
	})

	t.Run("zero-row partition", func(t *testing.T) {
		ch, err := client.SubmitPredict(ctx, addrA, model, types.PredictTask{
			Data:       types.Handle{Key: "empty"},
			NumClasses: 2,
		})
		require.NoError(t, err)

		res := <-ch
		require.NoError(t, res.Err)
		require.Equal(t, 0, res.Chunk.NumRows())
	})

	t.Run("missing partition surfaces the agent error", func(t *testing.T) {
		ch, err := client.SubmitPredict(ctx, addrA, model, types.PredictTask{
			Data:       types.Handle{Key: "ghost"},
			NumClasses: 2,
		})
		require.NoError(t, err)

		res := <-ch
		require.Error(t, res.Err)
	})
}
