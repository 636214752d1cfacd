package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-area/internal/service"
)

const DefaultBufferSize = 256

// Publisher forwards area snapshots to redis pub/sub so other instances and
// tools can follow an area. AreaChanged only queues; Run does the I/O.
type Publisher struct {
	logger *slog.Logger
	client *redis.Client
	prefix string

	events  chan service.AreaSnapshot
	dropped atomic.Uint64
}

func NewPublisher(logger *slog.Logger, client *redis.Client, prefix string, bufferSize int) *Publisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Publisher{
		logger: logger.With("component", "redis_publisher"),
		client: client,
		prefix: prefix,
		events: make(chan service.AreaSnapshot, bufferSize),
	}
}

// Channel returns the pub/sub channel of an area.
func (that *Publisher) Channel(areaID string) string {
	return that.prefix + ":" + areaID
}

// Dropped returns how many snapshots were discarded because the queue was full.
func (that *Publisher) Dropped() uint64 {
	return that.dropped.Load()
}

func (that *Publisher) AreaChanged(_ context.Context, snapshot service.AreaSnapshot) {
	select {
	case that.events <- snapshot:
	default:
		that.dropped.Add(1)
		that.logger.Warn("area event dropped", "areaID", snapshot.AreaID)
	}
}

// Run publishes queued snapshots until ctx is done.
func (that *Publisher) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			log.Info("publisher stopped", "dropped", that.Dropped())
			return
		case snapshot := <-that.events:
			if err := that.publish(ctx, snapshot); err != nil {
				log.Error("failed to publish area event", "areaID", snapshot.AreaID, "error", err)
			}
		}
	}
}

func (that *Publisher) publish(ctx context.Context, snapshot service.AreaSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err = that.client.Publish(ctx, that.Channel(snapshot.AreaID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}
