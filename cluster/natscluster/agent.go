package natscluster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/distboost/internal/natsutil"
	"github.com/arloliu/distboost/types"
	"github.com/arloliu/distboost/worker"
)

// Agent is the worker-side half of the NATS cluster substrate.
//
// One Agent runs in every worker process. It holds the worker's local chunk
// store, advertises the worker in the registry bucket with TTL-refreshed
// heartbeats, registers chunk locations in the placement bucket, and
// executes training and prediction tasks submitted to its subjects.
//
// Lifecycle:
//   - Create with NewAgent()
//   - Call Start() to register and begin serving tasks
//   - Call Stop() for graceful shutdown
type Agent struct {
	cfg     Config
	conn    *nats.Conn
	addr    string
	cores   int
	factory types.TrainerFactory
	logger  types.Logger

	executor *worker.Executor
	chunks   *xsync.Map[string, types.Chunk]

	workersKV   jetstream.KeyValue
	placementKV jetstream.KeyValue
	subs        []*nats.Subscription

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// agentStore adapts the agent's chunk map to types.ChunkStore and mirrors
// every Put into the placement bucket so the coordinator can locate chunks.
type agentStore struct {
	agent *Agent
}

var _ types.ChunkStore = (*agentStore)(nil)

// Get returns the chunk referenced by handle from the agent's local store.
func (s *agentStore) Get(_ context.Context, handle types.Handle) (types.Chunk, error) {
	chunk, ok := s.agent.chunks.Load(handle.Key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrChunkNotFound, handle.Key)
	}

	return chunk, nil
}

// Put stores a chunk locally and registers its location.
func (s *agentStore) Put(ctx context.Context, handle types.Handle, chunk types.Chunk) error {
	s.agent.chunks.Store(handle.Key, chunk)

	return s.agent.registerLocation(ctx, handle)
}

// NewAgent creates a worker agent.
//
// Parameters:
//   - cfg: Substrate configuration (defaults applied, then validated)
//   - conn: NATS connection (owned by the caller)
//   - addr: Advertised worker address (e.g. "tcp://10.0.0.1:8786")
//   - cores: Available compute units advertised to the coordinator
//   - factory: Trainer factory executing this worker's tasks
//   - logger: Structured logger (never nil; use the library nop logger)
//
// Returns:
//   - *Agent: Initialized agent, not yet started
//   - error: Configuration validation error
func NewAgent(cfg Config, conn *nats.Conn, addr string, cores int, factory types.TrainerFactory, logger types.Logger) (*Agent, error) {
	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if conn == nil {
		return nil, types.ErrClusterRequired
	}
	if factory == nil {
		return nil, types.ErrTrainerFactoryRequired
	}

	return &Agent{
		cfg:      cfg,
		conn:     conn,
		addr:     addr,
		cores:    cores,
		factory:  factory,
		logger:   logger,
		executor: worker.NewExecutor(factory, logger),
		chunks:   xsync.NewMap[string, types.Chunk](),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Store returns the agent's chunk store. Chunks put here are registered in
// the placement bucket and become visible to the coordinator.
func (a *Agent) Store() types.ChunkStore {
	return &agentStore{agent: a}
}

// Addr returns the advertised worker address.
func (a *Agent) Addr() string {
	return a.addr
}

// Start registers the worker and begins serving tasks.
//
// Publishes the first registry heartbeat immediately, then refreshes it
// every HeartbeatInterval until Stop is called.
//
// Parameters:
//   - ctx: Context bounding startup (bucket creation, first heartbeat)
//
// Returns:
//   - error: types.ErrAgentAlreadyStarted or a startup failure
func (a *Agent) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return types.ErrAgentAlreadyStarted
	}

	js, err := jetstream.New(a.conn)
	if err != nil {
		return fmt.Errorf("failed to create jetstream context: %w", err)
	}

	a.workersKV, err = natsutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: a.cfg.WorkersBucket,
		TTL:    a.cfg.WorkerTTL,
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to create workers KV: %w", err)
	}

	// Locations persist for the life of the chunks, not the heartbeat.
	a.placementKV, err = natsutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: a.cfg.PlacementBucket,
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to create placement KV: %w", err)
	}

	if err := a.publishHeartbeat(ctx); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}

	if err := a.subscribe(); err != nil {
		a.unsubscribeAll()

		return err
	}

	go a.heartbeatLoop()

	a.started = true
	a.logger.Info("worker agent started", "addr", a.addr, "cores", a.cores)

	return nil
}

// Stop unsubscribes from task subjects and removes the worker from the
// registry. Safe to call once after a successful Start.
//
// Parameters:
//   - ctx: Context bounding the deregistration
//
// Returns:
//   - error: types.ErrAgentNotStarted when the agent is not running
func (a *Agent) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return types.ErrAgentNotStarted
	}
	a.started = false

	close(a.stopCh)
	<-a.doneCh

	a.unsubscribeAll()

	if err := a.workersKV.Delete(ctx, subjectID(a.addr)); err != nil {
		a.logger.Warn("failed to deregister worker", "addr", a.addr, "error", err)
	}

	a.logger.Info("worker agent stopped", "addr", a.addr)

	return nil
}

// subscribe installs the scatter, train, and predict handlers.
//
// Handlers spawn a goroutine per message: training runs for minutes and
// must not serialize behind the subscription callback.
func (a *Agent) subscribe() error {
	id := subjectID(a.addr)
	handlers := map[string]nats.MsgHandler{
		a.subject("scatter", id): a.handleScatter,
		a.subject("train", id):   a.handleTrain,
		a.subject("predict", id): a.handlePredict,
	}

	for subject, handler := range handlers {
		sub, err := a.conn.Subscribe(subject, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		a.subs = append(a.subs, sub)
	}

	return nil
}

func (a *Agent) subject(op, id string) string {
	return fmt.Sprintf("%s.%s.%s", a.cfg.SubjectPrefix, op, id)
}

func (a *Agent) unsubscribeAll() {
	for _, sub := range a.subs {
		_ = sub.Unsubscribe()
	}
	a.subs = nil
}

// heartbeatLoop refreshes the registry entry until Stop.
func (a *Agent) heartbeatLoop() {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.OperationTimeout)
			if err := a.publishHeartbeat(ctx); err != nil {
				a.logger.Warn("heartbeat failed", "addr", a.addr, "error", err)
			}
			cancel()
		}
	}
}

func (a *Agent) publishHeartbeat(ctx context.Context) error {
	entry := workerEntry{Addr: a.addr, Cores: a.cores}
	_, err := a.workersKV.Put(ctx, subjectID(a.addr), encode(entry))

	return err
}

// registerLocation records that this worker holds the chunk.
//
// One key per (chunk, worker) pair, so multi-held chunks list every holder
// without read-modify-write races.
func (a *Agent) registerLocation(ctx context.Context, handle types.Handle) error {
	key := fmt.Sprintf("loc.%s.%s", subjectID(handle.Key), subjectID(a.addr))
	if _, err := a.placementKV.Put(ctx, key, []byte(a.addr)); err != nil {
		return fmt.Errorf("failed to register chunk location: %w", err)
	}

	return nil
}

func (a *Agent) handleScatter(msg *nats.Msg) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.OperationTimeout)
		defer cancel()

		var req scatterRequest
		reply := statusReply{}
		if err := decodeInto(msg.Data, &req); err != nil {
			reply.Error = err.Error()
		} else if chunk, err := unwrapChunk(req.Chunk); err != nil {
			reply.Error = err.Error()
		} else if err := a.Store().Put(ctx, req.Handle, chunk); err != nil {
			reply.Error = err.Error()
		}

		a.respond(msg, encode(reply))
	}()
}

func (a *Agent) handleTrain(msg *nats.Msg) {
	go func() {
		var req trainRequest
		reply := trainReply{}

		if err := decodeInto(msg.Data, &req); err != nil {
			reply.Error = err.Error()
			a.respond(msg, encode(reply))

			return
		}

		req.Task.Params = normalizeParams(req.Task.Params)

		// Training has no wall-clock bound here; the trainer's rendezvous
		// timeout governs the communication plane.
		model, err := a.executor.ExecuteTrain(context.Background(), a.Store(), req.Task)
		switch {
		case err != nil:
			reply.Error = err.Error()
		case model != nil:
			if reply.Model, err = model.MarshalBinary(); err != nil {
				reply.Error = fmt.Sprintf("failed to serialize model: %v", err)
			}
		}

		a.respond(msg, encode(reply))
	}()
}

func (a *Agent) handlePredict(msg *nats.Msg) {
	go func() {
		var req predictRequest
		reply := predictReply{}

		if err := decodeInto(msg.Data, &req); err != nil {
			reply.Error = err.Error()
			a.respond(msg, encode(reply))

			return
		}

		load := func() (types.Model, error) {
			return a.factory.LoadModel(req.Model)
		}

		chunk, err := a.executor.ExecutePredict(context.Background(), a.Store(), load, req.Task)
		if err != nil {
			reply.Error = err.Error()
		} else if reply.Chunk, err = wrapChunk(chunk); err != nil {
			reply.Error = err.Error()
		}

		a.respond(msg, encode(reply))
	}()
}

func (a *Agent) respond(msg *nats.Msg, data []byte) {
	if err := msg.Respond(data); err != nil {
		a.logger.Warn("failed to respond", "subject", msg.Subject, "error", err)
	}
}
