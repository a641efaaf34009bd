package placement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/distboost/internal/logging"
	"github.com/arloliu/distboost/types"
)

// stubCluster answers location queries from canned maps.
type stubCluster struct {
	locations      map[string][]string
	materializeErr error
	whoHasErr      error
}

var _ types.Cluster = (*stubCluster)(nil)

func (s *stubCluster) Materialize(_ context.Context, _ []types.Handle) error {
	return s.materializeErr
}

func (s *stubCluster) WhoHas(_ context.Context, handles []types.Handle) (map[string][]string, error) {
	if s.whoHasErr != nil {
		return nil, s.whoHasErr
	}

	out := make(map[string][]string)
	for _, h := range handles {
		if holders, ok := s.locations[h.Key]; ok {
			out[h.Key] = holders
		}
	}

	return out, nil
}

func (s *stubCluster) CoreCounts(_ context.Context) (map[string]int, error) {
	return nil, nil
}

func (s *stubCluster) SubmitTrain(_ context.Context, _ string, _ types.TrainTask) (<-chan types.TrainResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCluster) SubmitPredict(_ context.Context, _ string, _ types.Model, _ types.PredictTask) (<-chan types.PredictResult, error) {
	return nil, errors.New("not implemented")
}

func part(i byte) types.Part {
	return types.Part{
		Data:  types.Handle{Key: "d" + string('0'+i)},
		Label: types.Handle{Key: "l" + string('0'+i)},
	}
}

func TestResolve(t *testing.T) {
	logger := logging.NewNop()

	t.Run("groups partitions by holder", func(t *testing.T) {
		cluster := &stubCluster{locations: map[string][]string{
			"d0": {"w1"},
			"d1": {"w2"},
			"d2": {"w1"},
		}}
		r := NewResolver(cluster, logger)

		pl, err := r.Resolve(t.Context(), []types.Part{part(0), part(1), part(2)})
		require.NoError(t, err)

		require.Equal(t, []string{"w1", "w2"}, pl.Workers)
		require.Equal(t, []types.Part{part(0), part(2)}, pl.ByWorker["w1"])
		require.Equal(t, []types.Part{part(1)}, pl.ByWorker["w2"])
		require.Equal(t, "w1", pl.ResultWorker)
	})

	t.Run("every partition assigned exactly once", func(t *testing.T) {
		cluster := &stubCluster{locations: map[string][]string{
			"d0": {"w1", "w2"},
			"d1": {"w2", "w1"},
			"d2": {"w2"},
		}}
		r := NewResolver(cluster, logger)

		pl, err := r.Resolve(t.Context(), []types.Part{part(0), part(1), part(2)})
		require.NoError(t, err)

		total := 0
		seen := make(map[string]bool)
		for _, parts := range pl.ByWorker {
			for _, p := range parts {
				require.False(t, seen[p.Data.Key], "partition %s assigned twice", p.Data.Key)
				seen[p.Data.Key] = true
				total++
			}
		}
		require.Equal(t, 3, total)
	})

	t.Run("first reported holder wins", func(t *testing.T) {
		cluster := &stubCluster{locations: map[string][]string{
			"d0": {"w2", "w1"},
		}}
		r := NewResolver(cluster, logger)

		pl, err := r.Resolve(t.Context(), []types.Part{part(0)})
		require.NoError(t, err)
		require.Equal(t, []string{"w2"}, pl.Workers)
		require.Equal(t, "w2", pl.ResultWorker)
	})

	t.Run("worker without partitions excluded", func(t *testing.T) {
		// w3 exists in the cluster but holds nothing.
		cluster := &stubCluster{locations: map[string][]string{
			"d0": {"w1"},
			"d1": {"w2"},
		}}
		r := NewResolver(cluster, logger)

		pl, err := r.Resolve(t.Context(), []types.Part{part(0), part(1)})
		require.NoError(t, err)
		require.NotContains(t, pl.Workers, "w3")
		require.NotContains(t, pl.ByWorker, "w3")
	})

	t.Run("no partitions", func(t *testing.T) {
		r := NewResolver(&stubCluster{}, logger)

		_, err := r.Resolve(t.Context(), nil)
		require.ErrorIs(t, err, types.ErrNoPartitions)
	})

	t.Run("materialization failure aborts immediately", func(t *testing.T) {
		boom := errors.New("chunk evaluation failed")
		r := NewResolver(&stubCluster{materializeErr: boom}, logger)

		_, err := r.Resolve(t.Context(), []types.Part{part(0)})
		require.ErrorIs(t, err, types.ErrPlacementFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("location lookup failure aborts immediately", func(t *testing.T) {
		boom := errors.New("lookup failed")
		r := NewResolver(&stubCluster{whoHasErr: boom}, logger)

		_, err := r.Resolve(t.Context(), []types.Part{part(0)})
		require.ErrorIs(t, err, types.ErrPlacementFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("unplaced partition fails", func(t *testing.T) {
		cluster := &stubCluster{locations: map[string][]string{"d0": {"w1"}}}
		r := NewResolver(cluster, logger)

		_, err := r.Resolve(t.Context(), []types.Part{part(0), part(1)})
		require.ErrorIs(t, err, types.ErrPlacementFailed)
	})
}
