package natsutil

import (
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	dbtest "github.com/arloliu/distboost/testing"
)

func TestEnsureKVBucket(t *testing.T) {
	_, nc := dbtest.StartEmbeddedNATS(t)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	ctx := t.Context()

	t.Run("creates missing bucket", func(t *testing.T) {
		kv, err := EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "fresh"}, 3)
		require.NoError(t, err)
		require.NotNil(t, kv)

		_, err = kv.Put(ctx, "key", []byte("value"))
		require.NoError(t, err)
	})

	t.Run("opens existing bucket", func(t *testing.T) {
		existing := dbtest.CreateJetStreamKV(t, nc, "existing")
		_, err := existing.Put(ctx, "key", []byte("before"))
		require.NoError(t, err)

		kv, err := EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "existing"}, 3)
		require.NoError(t, err)

		entry, err := kv.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, []byte("before"), entry.Value())
	})

	t.Run("idempotent for identical config", func(t *testing.T) {
		first, err := EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "same"}, 3)
		require.NoError(t, err)

		second, err := EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "same"}, 3)
		require.NoError(t, err)
		require.Equal(t, first.Bucket(), second.Bucket())
	})
}
