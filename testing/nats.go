package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS runs an in-process NATS server with JetStream and returns
// a connected client. The natscluster tests use it so agent and coordinator
// talk over a real broker without any external setup.
//
// The server listens on a random port, so tests can run in parallel, and
// keeps JetStream state in t.TempDir. Server and connection are torn down
// through t.Cleanup when the test ends.
//
// Parameters:
//   - t: Test handle used for fatal errors and cleanup registration
//
// Returns:
//   - *server.Server: The running embedded server
//   - *nats.Conn: Client connection to it
//
// Example:
//
//	func TestAgentRoundTrip(t *testing.T) {
//	    _, nc := dbtest.StartEmbeddedNATS(t)
//	    agent, err := natscluster.NewAgent(cfg, nc, addr, cores, factory, logger)
//	    ...
//	}
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // random free port
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server not ready within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// CreateJetStreamKV creates a memory-backed KV bucket with a one-minute TTL,
// the shape the worker-registry and placement tests want.
//
// Parameters:
//   - t: Test handle
//   - nc: Connection from StartEmbeddedNATS
//   - bucketName: Bucket to create
//
// Returns:
//   - jetstream.KeyValue: The created bucket
func CreateJetStreamKV(t *testing.T, nc *nats.Conn, bucketName string) jetstream.KeyValue {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("get JetStream context: %v", err)
	}

	kv, err := js.CreateKeyValue(t.Context(), jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("test KV bucket: %s", bucketName),
		TTL:         1 * time.Minute,
		Storage:     jetstream.MemoryStorage,
		Replicas:    1,
	})
	if err != nil {
		t.Fatalf("create KV bucket %s: %v", bucketName, err)
	}

	return kv
}
