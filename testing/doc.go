// Package testing provides test utilities for the distboost library.
//
// This package offers helpers for setting up test environments: an embedded
// NATS server for substrate integration tests, a logger that writes to the
// testing.T log, and a fake trainer factory implementing the trainer
// contract with controllable behavior. It follows Go's convention of
// providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: Logger writing through testing.T
//   - NewFakeFactory: Trainer factory fake with overridable Fit behavior
//
// Example usage:
//
//	import (
//	    "testing"
//	    dbtest "github.com/arloliu/distboost/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := dbtest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
