// Package natscluster provides a cluster substrate backed by NATS JetStream.
//
// Worker processes run an Agent: it stores scattered chunks locally,
// advertises the worker through TTL-refreshed heartbeats in the workers KV
// bucket, registers chunk locations in the placement KV bucket, and executes
// training and prediction tasks submitted to its subjects.
//
// The coordinating process uses a Client, which implements the cluster
// interface consumed by the orchestration layer: chunk locations and core
// counts are answered from the KV buckets, and tasks are submitted with
// request/reply over per-worker subjects.
//
// Subject layout (prefix configurable):
//
//	<prefix>.scatter.<worker-id>
//	<prefix>.train.<worker-id>
//	<prefix>.predict.<worker-id>
//
// Training requests carry no transport deadline: a distributed round lasts
// as long as the slowest worker, and the trainer's own rendezvous timeout
// bounds the communication plane. Prediction and scatter requests are
// bounded by the configured operation timeout.
package natscluster
