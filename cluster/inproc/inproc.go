// Package inproc provides an in-process Cluster implementation.
//
// Workers are goroutines inside the orchestrating process, each with its own
// chunk store. The substrate is used by tests and by single-process runs that
// still want the full multi-worker training flow (placement, topology, one
// task per worker).
package inproc

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/distboost/types"
	"github.com/arloliu/distboost/worker"
	"github.com/puzpuzpuz/xsync/v4"
)

// Store is an in-memory chunk store backed by a concurrent map.
type Store struct {
	chunks *xsync.Map[string, types.Chunk]
}

// Compile-time assertion that Store implements ChunkStore.
var _ types.ChunkStore = (*Store)(nil)

// NewStore creates an empty chunk store.
func NewStore() *Store {
	return &Store{chunks: xsync.NewMap[string, types.Chunk]()}
}

// Get returns the chunk referenced by handle.
//
// Returns:
//   - types.Chunk: The stored chunk
//   - error: types.ErrChunkNotFound when the store has no chunk for handle
func (s *Store) Get(_ context.Context, handle types.Handle) (types.Chunk, error) {
	chunk, ok := s.chunks.Load(handle.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrChunkNotFound, handle.Key)
	}

	return chunk, nil
}

// Put stores a chunk under handle, replacing any existing chunk.
func (s *Store) Put(_ context.Context, handle types.Handle, chunk types.Chunk) error {
	s.chunks.Store(handle.Key, chunk)

	return nil
}

// has reports whether the store holds a chunk for key.
func (s *Store) has(key string) bool {
	_, ok := s.chunks.Load(key)

	return ok
}

// node is one in-process worker.
type node struct {
	addr  string
	cores int
	store *Store
}

// Cluster is an in-process implementation of types.Cluster.
//
// Thread Safety: all methods are safe for concurrent use. Worker
// registration order is preserved so location reports are deterministic.
type Cluster struct {
	executor *worker.Executor
	logger   types.Logger

	mu    sync.RWMutex
	order []string
	nodes map[string]*node
}

// Compile-time assertion that Cluster implements types.Cluster.
var _ types.Cluster = (*Cluster)(nil)

// New creates an empty in-process cluster.
//
// Parameters:
//   - factory: Trainer factory used by every worker
//   - logger: Structured logger (never nil; use the library nop logger)
//
// Returns:
//   - *Cluster: Cluster with no workers; add them with AddWorker
func New(factory types.TrainerFactory, logger types.Logger) *Cluster {
	return &Cluster{
		executor: worker.NewExecutor(factory, logger),
		logger:   logger,
		nodes:    make(map[string]*node),
	}
}

// AddWorker registers a worker with the given address and core count.
//
// Re-adding an existing address replaces its core count but keeps its store.
//
// Parameters:
//   - addr: Worker address (e.g. "tcp://10.0.0.1:8786")
//   - cores: Available compute units
func (c *Cluster) AddWorker(addr string, cores int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.nodes[addr]; ok {
		existing.cores = cores

		return
	}

	c.nodes[addr] = &node{addr: addr, cores: cores, store: NewStore()}
	c.order = append(c.order, addr)
}

// Scatter places a chunk on the given worker's store.
//
// Parameters:
//   - ctx: Context for cancellation
//   - addr: Worker address registered with AddWorker
//   - handle: Handle the chunk will be known by
//   - chunk: The chunk data
//
// Returns:
//   - error: types.ErrWorkerUnavailable when addr is not registered
func (c *Cluster) Scatter(ctx context.Context, addr string, handle types.Handle, chunk types.Chunk) error {
	n, err := c.node(addr)
	if err != nil {
		return err
	}

	return n.store.Put(ctx, handle, chunk)
}

// Store returns the chunk store of the given worker, or nil when the worker
// is not registered. Exposed for tests that inspect worker-local state.
func (c *Cluster) Store(addr string) *Store {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n, ok := c.nodes[addr]; ok {
		return n.store
	}

	return nil
}

// Materialize verifies every handle is resident on some worker.
//
// Chunks are placed eagerly by Scatter, so materialization is a residency
// check: the first missing handle fails immediately.
func (c *Cluster) Materialize(_ context.Context, handles []types.Handle) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, h := range handles {
		if c.holdersLocked(h.Key) == 0 {
			return fmt.Errorf("chunk %s is not resident on any worker", h.Key)
		}
	}

	return nil
}

// WhoHas reports the workers holding each handle, in registration order.
func (c *Cluster) WhoHas(_ context.Context, handles []types.Handle) (map[string][]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locations := make(map[string][]string, len(handles))
	for _, h := range handles {
		for _, addr := range c.order {
			if c.nodes[addr].store.has(h.Key) {
				locations[h.Key] = append(locations[h.Key], addr)
			}
		}
	}

	return locations, nil
}

// CoreCounts reports the core count of every registered worker.
func (c *Cluster) CoreCounts(_ context.Context) (map[string]int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[string]int, len(c.nodes))
	for addr, n := range c.nodes {
		counts[addr] = n.cores
	}

	return counts, nil
}

// SubmitTrain runs the training task on the worker's goroutine.
func (c *Cluster) SubmitTrain(ctx context.Context, addr string, task types.TrainTask) (<-chan types.TrainResult, error) {
	n, err := c.node(addr)
	if err != nil {
		return nil, err
	}

	ch := make(chan types.TrainResult, 1)
	go func() {
		model, err := c.executor.ExecuteTrain(ctx, n.store, task)
		ch <- types.TrainResult{Model: model, Err: err}
	}()

	return ch, nil
}

// SubmitPredict applies the model to the task's partition on the worker's
// goroutine. The model is passed by reference; no serialization round-trip.
func (c *Cluster) SubmitPredict(ctx context.Context, addr string, model types.Model, task types.PredictTask) (<-chan types.PredictResult, error) {
	n, err := c.node(addr)
	if err != nil {
		return nil, err
	}

	ch := make(chan types.PredictResult, 1)
	go func() {
		chunk, err := c.executor.ExecutePredict(ctx, n.store, func() (types.Model, error) {
			return model, nil
		}, task)
		ch <- types.PredictResult{Chunk: chunk, Err: err}
	}()

	return ch, nil
}

func (c *Cluster) node(addr string) (*node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.nodes[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrWorkerUnavailable, addr)
	}

	return n, nil
}

func (c *Cluster) holdersLocked(key string) int {
	holders := 0
	for _, n := range c.nodes {
		if n.store.has(key) {
			holders++
		}
	}

	return holders
}
