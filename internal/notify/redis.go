package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// userChannelPrefix namespaces the per-user Redis pub/sub channels.
const userChannelPrefix = "taskboard:user:"

// userChannel returns the Redis channel name for a user identity.
func userChannel(userID uuid.UUID) string {
	return userChannelPrefix + userID.String()
}

// RedisPublisher publishes task events to per-user Redis channels so
// every instance of the server sees them, not just the one that handled
// the mutation. It replaces the hub as the orchestrator's Publisher; the
// companion RedisBridge feeds the local hub from the same channels.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisPublisher creates a RedisPublisher on the given client.
func NewRedisPublisher(client *redis.Client, log *slog.Logger) *RedisPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &RedisPublisher{
		client: client,
		logger: log.With(slog.String("component", "redis_publisher")),
	}
}

// Ensure RedisPublisher implements Publisher
var _ Publisher = (*RedisPublisher)(nil)

// Publish implements Publisher by writing the event to the user's
// channel. Subscribers on any instance pick it up and deliver to their
// local sessions.
func (p *RedisPublisher) Publish(
	ctx context.Context,
	userID uuid.UUID,
	event *events.TaskEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, userChannel(userID), payload).Err()
}

// RedisBridge subscribes to every per-user channel and forwards incoming
// events to the local hub, so sessions connected to this instance receive
// events published by any instance.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
	logger *slog.Logger
}

// NewRedisBridge creates a bridge between the given Redis client and hub.
func NewRedisBridge(client *redis.Client, hub *Hub, log *slog.Logger) *RedisBridge {
	if log == nil {
		log = slog.Default()
	}
	return &RedisBridge{
		client: client,
		hub:    hub,
		logger: log.With(slog.String("component", "redis_bridge")),
	}
}

// Run consumes the pattern subscription until the context is canceled.
// Malformed messages are logged and skipped; the mutation that produced
// them has already committed, so there is nothing to fail.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx, userChannelPrefix+"*")
	defer func() { _ = pubsub.Close() }()

	b.logger.Info("redis notification bridge started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("redis notification bridge stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn("redis subscription channel closed")
				return
			}
			b.deliver(ctx, msg)
		}
	}
}

// deliver parses one pub/sub message and hands it to the local hub.
func (b *RedisBridge) deliver(ctx context.Context, msg *redis.Message) {
	userIDRaw := strings.TrimPrefix(msg.Channel, userChannelPrefix)
	userID, err := uuid.Parse(userIDRaw)
	if err != nil {
		b.logger.Warn("ignoring message on malformed user channel",
			slog.String("channel", msg.Channel))
		return
	}

	var event events.TaskEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		b.logger.Warn("ignoring malformed event payload",
			slog.String("error", err.Error()),
			slog.String("channel", msg.Channel))
		return
	}

	if err := b.hub.Publish(ctx, userID, &event); err != nil {
		b.logger.Warn("failed to deliver bridged event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
}
