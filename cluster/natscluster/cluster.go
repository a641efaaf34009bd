package natscluster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/distboost/internal/natsutil"
	"github.com/arloliu/distboost/types"
)

// Client is the coordinator-side half of the NATS cluster substrate. It
// implements types.Cluster over worker agents discovered through the
// registry bucket, with chunk placement resolved from the placement bucket.
type Client struct {
	cfg     Config
	conn    *nats.Conn
	factory types.TrainerFactory
	logger  types.Logger

	workersKV   jetstream.KeyValue
	placementKV jetstream.KeyValue
}

var _ types.Cluster = (*Client)(nil)

// NewClient creates a coordinator-side cluster client.
//
// Parameters:
//   - ctx: Context bounding bucket binding
//   - cfg: Substrate configuration (must match the worker agents')
//   - conn: NATS connection (owned by the caller)
//   - factory: Trainer factory used to rehydrate serialized models
//   - logger: Structured logger (never nil; use the library nop logger)
//
// Returns:
//   - *Client: Ready cluster client
//   - error: Configuration or bucket binding error
func NewClient(ctx context.Context, cfg Config, conn *nats.Conn, factory types.TrainerFactory, logger types.Logger) (*Client, error) {
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

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	workersKV, err := natsutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: cfg.WorkersBucket,
		TTL:    cfg.WorkerTTL,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to bind workers KV: %w", err)
	}

	placementKV, err := natsutil.EnsureKVBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: cfg.PlacementBucket,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to bind placement KV: %w", err)
	}

	return &Client{
		cfg:         cfg,
		conn:        conn,
		factory:     factory,
		logger:      logger,
		workersKV:   workersKV,
		placementKV: placementKV,
	}, nil
}

// Scatter places a chunk on a specific worker's store.
//
// The worker registers the chunk's location as part of the store, so a
// scattered chunk is immediately visible to WhoHas.
func (c *Client) Scatter(ctx context.Context, worker string, handle types.Handle, chunk types.Chunk) error {
	env, err := wrapChunk(chunk)
	if err != nil {
		return err
	}

	req := scatterRequest{Handle: handle, Chunk: env}
	msg, err := c.request(ctx, c.subject("scatter", worker), encode(req), c.cfg.OperationTimeout)
	if err != nil {
		return fmt.Errorf("%w: scatter to %s: %w", types.ErrWorkerUnavailable, worker, err)
	}

	var reply statusReply
	if err := decodeInto(msg.Data, &reply); err != nil {
		return err
	}
	if reply.Error != "" {
		return fmt.Errorf("scatter to %s failed: %s", worker, reply.Error)
	}

	return nil
}

// Materialize blocks until every handle has at least one registered holder,
// polling the placement bucket up to MaterializeTimeout.
func (c *Client) Materialize(ctx context.Context, handles []types.Handle) error {
	deadline := time.Now().Add(c.cfg.MaterializeTimeout)
	pending := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		pending[h.Key] = struct{}{}
	}

	for len(pending) > 0 {
		for key := range pending {
			holders, err := c.holders(ctx, key)
			if err != nil {
				return err
			}
			if len(holders) > 0 {
				delete(pending, key)
			}
		}
		if len(pending) == 0 {
			break
		}
		if time.Now().After(deadline) {
			for key := range pending {
				return fmt.Errorf("%w: %s not materialized within %s", types.ErrChunkNotFound, key, c.cfg.MaterializeTimeout)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	return nil
}

// WhoHas reports the holders of each handle from the placement bucket.
// Holder order is deterministic (sorted by address) for a given placement.
func (c *Client) WhoHas(ctx context.Context, handles []types.Handle) (map[string][]string, error) {
	result := make(map[string][]string, len(handles))
	for _, h := range handles {
		holders, err := c.holders(ctx, h.Key)
		if err != nil {
			return nil, err
		}
		if len(holders) > 0 {
			result[h.Key] = holders
		}
	}

	return result, nil
}

// CoreCounts reports advertised compute units from the worker registry.
func (c *Client) CoreCounts(ctx context.Context) (map[string]int, error) {
	keys, err := c.listKeys(ctx, c.workersKV)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	counts := make(map[string]int, len(keys))
	for _, key := range keys {
		kvEntry, err := c.workersKV.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue // expired between list and get
			}

			return nil, fmt.Errorf("failed to read worker entry: %w", err)
		}

		var entry workerEntry
		if err := decodeInto(kvEntry.Value(), &entry); err != nil {
			return nil, err
		}
		counts[entry.Addr] = entry.Cores
	}

	return counts, nil
}

// SubmitTrain submits the task to the worker's train subject and delivers
// the reply on the returned channel.
//
// Training has no transport-level deadline. Fail-fast behavior comes from
// workers replying with errors, not from timing out healthy peers mid-round.
func (c *Client) SubmitTrain(ctx context.Context, worker string, task types.TrainTask) (<-chan types.TrainResult, error) {
	results := make(chan types.TrainResult, 1)
	data := encode(trainRequest{Task: task})

	go func() {
		msg, err := c.request(ctx, c.subject("train", worker), data, 0)
		if err != nil {
			results <- types.TrainResult{Err: fmt.Errorf("%w: %s: %w", types.ErrWorkerUnavailable, worker, err)}

			return
		}

		var reply trainReply
		if err := decodeInto(msg.Data, &reply); err != nil {
			results <- types.TrainResult{Err: err}

			return
		}
		if reply.Error != "" {
			results <- types.TrainResult{Err: errors.New(reply.Error)}

			return
		}

		var model types.Model
		if len(reply.Model) > 0 {
			if model, err = c.factory.LoadModel(reply.Model); err != nil {
				results <- types.TrainResult{Err: fmt.Errorf("failed to load model from %s: %w", worker, err)}

				return
			}
		}

		results <- types.TrainResult{Model: model}
	}()

	return results, nil
}

// SubmitPredict ships the serialized model and task to the worker's predict
// subject and delivers the shaped prediction on the returned channel.
func (c *Client) SubmitPredict(ctx context.Context, worker string, model types.Model, task types.PredictTask) (<-chan types.PredictResult, error) {
	raw, err := model.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize model: %w", err)
	}

	results := make(chan types.PredictResult, 1)
	data := encode(predictRequest{Task: task, Model: raw})

	go func() {
		msg, err := c.request(ctx, c.subject("predict", worker), data, c.cfg.OperationTimeout)
		if err != nil {
			results <- types.PredictResult{Err: fmt.Errorf("%w: %s: %w", types.ErrWorkerUnavailable, worker, err)}

			return
		}

		var reply predictReply
		if err := decodeInto(msg.Data, &reply); err != nil {
			results <- types.PredictResult{Err: err}

			return
		}
		if reply.Error != "" {
			results <- types.PredictResult{Err: errors.New(reply.Error)}

			return
		}

		chunk, err := unwrapChunk(reply.Chunk)
		if err != nil {
			results <- types.PredictResult{Err: err}

			return
		}

		results <- types.PredictResult{Chunk: chunk}
	}()

	return results, nil
}

func (c *Client) subject(op, worker string) string {
	return fmt.Sprintf("%s.%s.%s", c.cfg.SubjectPrefix, op, subjectID(worker))
}

// request performs an async request/reply. A zero timeout means the reply
// wait is bounded only by ctx.
func (c *Client) request(ctx context.Context, subject string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inbox := c.conn.NewRespInbox()
	sub, err := c.conn.SubscribeSync(inbox)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to reply inbox: %w", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	if err := c.conn.PublishRequest(subject, inbox, data); err != nil {
		return nil, fmt.Errorf("failed to publish request: %w", err)
	}

	msg, err := sub.NextMsgWithContext(ctx)
	if err != nil {
		if natsutil.IsConnectivityError(err) {
			return nil, fmt.Errorf("worker unreachable: %w", err)
		}

		return nil, err
	}

	return msg, nil
}

// holders returns the sorted worker addresses registered for a chunk key.
func (c *Client) holders(ctx context.Context, chunkKey string) ([]string, error) {
	prefix := fmt.Sprintf("loc.%s.", subjectID(chunkKey))
	keys, err := c.listKeys(ctx, c.placementKV)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk locations: %w", err)
	}

	var holders []string
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		kvEntry, err := c.placementKV.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}

			return nil, fmt.Errorf("failed to read chunk location: %w", err)
		}
		holders = append(holders, string(kvEntry.Value()))
	}
	sort.Strings(holders)

	return holders, nil
}

// listKeys lists all keys in a bucket, treating an empty bucket as empty
// rather than an error.
func (c *Client) listKeys(ctx context.Context, kv jetstream.KeyValue) ([]string, error) {
	lister, err := kv.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, err
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	return keys, nil
}
