// Package client subscribes to a JSON-RPC snapshot stream and delivers
// decoded market snapshots to the application. Every event carries a full
// snapshot; there is no diff protocol, so a dropped message costs at most one
// block of staleness.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/gmx-io/gmx-interface-sub018/engine"
)

const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 30 * time.Second

	// RpcNamespace is the namespace under which the snapshot streamer is
	// registered.
	RpcNamespace               = "gmx"
	SnapshotSubscriptionMethod = "subscribeSnapshots"

	snapshotEventType = "snapshot"
)

// -----------------------------------------------------------------------------
// StreamProcessor
// -----------------------------------------------------------------------------

// StreamProcessor parses snapshot events, discards stale ones and broadcasts
// the rest. It is decoupled from the networking layer.
type StreamProcessor struct {
	lastSnapshot *engine.Snapshot
	snapshotCh   chan *engine.Snapshot
	logger       Logger
}

// NewStreamProcessor creates a pure logic processor without networking.
func NewStreamProcessor(logger Logger, bufferSize uint) *StreamProcessor {
	return &StreamProcessor{
		logger:     logger,
		snapshotCh: make(chan *engine.Snapshot, bufferSize),
	}
}

// Snapshots returns a read-only channel for receiving new snapshots.
func (sp *StreamProcessor) Snapshots() <-chan *engine.Snapshot {
	return sp.snapshotCh
}

// ProcessMessage accepts a raw JSON message, decodes it and updates the
// internal state. Stale snapshots are dropped without error.
func (sp *StreamProcessor) ProcessMessage(rawData json.RawMessage) error {
	processingStart := time.Now()

	var event SubscriptionEvent
	if err := json.Unmarshal(rawData, &event); err != nil {
		return fmt.Errorf("failed to unmarshal subscription event: %w", err)
	}
	if event.Type != snapshotEventType {
		return fmt.Errorf("received unknown event type: %s", event.Type)
	}

	var snapshot engine.Snapshot
	if err := json.Unmarshal(event.Payload, &snapshot); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot payload: %w", err)
	}

	if sp.isStale(&snapshot) {
		sp.logger.Warn(
			"Received snapshot at or behind the last delivered block. Discarding.",
			"last_block", sp.lastSnapshot.Block.Number,
			"snapshot_block", snapshot.Block.Number,
		)
		return nil
	}

	sp.logSnapshot(&snapshot, time.Since(processingStart), event.SentAt)

	sp.lastSnapshot = &snapshot
	sp.deliver(&snapshot)
	return nil
}

func (sp *StreamProcessor) isStale(snapshot *engine.Snapshot) bool {
	if sp.lastSnapshot == nil {
		return false
	}
	last, next := sp.lastSnapshot.Block.Number, snapshot.Block.Number
	if last == nil || next == nil {
		return false
	}
	return next.Cmp(last) <= 0
}

// deliver pushes the snapshot to the channel, evicting the oldest buffered
// one when the consumer lags. A slow consumer always sees the most recent
// state on catch-up.
func (sp *StreamProcessor) deliver(snapshot *engine.Snapshot) {
	for {
		select {
		case sp.snapshotCh <- snapshot:
			return
		default:
		}
		select {
		case <-sp.snapshotCh:
		default:
		}
	}
}

func (sp *StreamProcessor) logSnapshot(snapshot *engine.Snapshot, processingDur time.Duration, sentAt int64) {
	clientFinishTime := time.Now()
	blockTimestamp := time.Unix(int64(snapshot.Block.Timestamp), 0)
	clientStartTime := clientFinishTime.Add(-processingDur)
	serverFinishTime := time.Unix(0, sentAt)

	transportTime := clientStartTime.Sub(serverFinishTime)
	totalLatency := clientFinishTime.Sub(blockTimestamp)
	serverProcessingMs := serverFinishTime.Sub(time.Unix(0, snapshot.Block.ReceivedAt)).Milliseconds()

	sp.logger.Debug("Snapshot processed",
		"block", snapshot.Block.Number,
		"markets", len(snapshot.Markets),
		"tokens", len(snapshot.Tokens),
		"errors", len(snapshot.Errors),
		"latency_total_ms", totalLatency.Milliseconds(),
		"latency_transport_ms", transportTime.Milliseconds(),
		"latency_proc_ms", processingDur.Milliseconds(),
		"latency_server_ms", serverProcessingMs,
	)
}

// -----------------------------------------------------------------------------
// Client (Networking Wrapper)
// -----------------------------------------------------------------------------

// Client manages the connection and uses StreamProcessor for logic.
type Client struct {
	processor *StreamProcessor
	errCh     chan error
	logger    Logger
}

// NewClient creates a new client with networking enabled.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := &Client{
		processor: NewStreamProcessor(cfg.Logger, cfg.BufferSize),
		errCh:     make(chan error, 1),
		logger:    cfg.Logger,
	}

	go client.run(ctx, cfg.URL)
	return client, nil
}

// Snapshots delegates to the processor's snapshot channel.
func (c *Client) Snapshots() <-chan *engine.Snapshot {
	return c.processor.Snapshots()
}

// Err returns a read-only channel for receiving fatal (unrecoverable) errors.
func (c *Client) Err() <-chan error {
	return c.errCh
}

// run handles the networking lifecycle and feeds data to the processor.
func (c *Client) run(ctx context.Context, url string) {
	defer close(c.errCh)
	reconnectDelay := initialReconnectDelay

	for {
		if ctx.Err() != nil {
			c.logger.Info("Client context canceled, shutting down.")
			return
		}

		c.logger.Info("Attempting to connect to RPC server", "url", url)
		rpcClient, err := rpc.DialContext(ctx, url)
		if err != nil {
			c.logger.Error("Failed to connect to RPC server, will retry...", "error", err, "delay", reconnectDelay)
			time.Sleep(reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
			continue
		}

		c.logger.Info("Successfully connected to RPC server.")
		reconnectDelay = initialReconnectDelay

		err = c.subscribeAndProcess(ctx, rpcClient)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("Context canceled, shutting down.")
				return
			}
			c.logger.Error("Subscription failed, will reconnect...", "error", err, "delay", reconnectDelay)
			time.Sleep(reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
		}
	}
}

func (c *Client) subscribeAndProcess(ctx context.Context, rpcClient *rpc.Client) error {
	defer rpcClient.Close()

	rawCh := make(chan json.RawMessage)
	sub, err := rpcClient.Subscribe(ctx, RpcNamespace, rawCh, SnapshotSubscriptionMethod)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	c.logger.Info("Successfully subscribed. Waiting for snapshots...")
	for {
		select {
		case rawData := <-rawCh:
			if err := c.processor.ProcessMessage(rawData); err != nil {
				c.logger.Error("Error processing message", "error", err)
			}
		case err := <-sub.Err():
			return err
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping subscription.")
			return ctx.Err()
		}
	}
}
