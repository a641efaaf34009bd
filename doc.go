// Package distboost orchestrates distributed training of gradient-boosting
// models across a cluster of workers that already hold disjoint shards of a
// dataset.
//
// The hard problem is not the boosting algorithm (an external, opaque trainer
// is injected) but the coordination around it: discovering where each data
// partition physically resides, co-locating work with the workers that hold
// the data, deriving a collision-free host:port topology for the trainer's
// own all-to-all communication, dispatching one task per worker with a
// consistent view of that topology, and collecting exactly one authoritative
// model while failing fast on partial failures.
//
// # Quick Start
//
//	cfg := distboost.DefaultConfig()
//
//	cluster := inproc.New(factory, logger)
//	cluster.AddWorker("tcp://10.0.0.1:8786", 8)
//	cluster.AddWorker("tcp://10.0.0.2:8786", 8)
//	// scatter chunks onto the workers...
//
//	coord, err := distboost.New(&cfg, cluster, factory)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	model, err := coord.Train(ctx, distboost.TrainInput{
//	    Data:   dataHandles,
//	    Label:  labelHandles,
//	    Params: map[string]any{"objective": "binary", "tree_learner": "data"},
//	})
//
// # Training Flow
//
// Train runs a synchronous pipeline with two blocking barriers:
//
//	split → place → build topology → dispatch → collect
//
// Partitions are never moved: each worker trains only on the chunks it
// already holds. The trainer's gradient exchange between workers is a black
// box; this layer's only communication-plane responsibility is handing every
// task an identical, collision-free host:port table before tasks start.
//
// # Cluster Substrates
//
// The cluster is an injected capability, not a singleton, so tests can
// supply a fake mapping:
//
//   - cluster/inproc: goroutine workers in a single process
//   - cluster/natscluster: remote worker agents coordinated over NATS JetStream
//
// # Determinism Notes
//
// Two arbitrary but stable tie-breaks affect reproducibility across runs
// with different cluster topologies: the first reported holder wins when a
// chunk is resident on several workers, and the first worker of the
// placement enumeration becomes the result-bearing worker.
package distboost
