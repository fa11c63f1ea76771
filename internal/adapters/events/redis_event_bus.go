package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	redisclient "github.com/soundseekers/discovery-backend/internal/infrastructure/clients/redis"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub
type RedisEventBus struct {
	client        *redisclient.Client
	logger        zerolog.Logger
	mu            sync.RWMutex
	subscriptions map[string]*redis.PubSub
	subscribers   map[string][]chan *entities.CatalogEvent
	closed        bool
}

// NewRedisEventBus creates a new Redis-backed event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		client:        client,
		logger:        observability.GetLogger().With().Str("component", "event_bus").Logger(),
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string][]chan *entities.CatalogEvent),
	}
}

// Publish sends a catalog notification to the given channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe registers a new subscriber on the given channel. The first
// subscriber starts the underlying Redis Pub/Sub receiver.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}

	ch := make(chan *entities.CatalogEvent, 16)
	b.subscribers[channel] = append(b.subscribers[channel], ch)

	if _, ok := b.subscriptions[channel]; !ok {
		pubsub := b.client.Client().Subscribe(ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	return ch, nil
}

// receiveMessages reads from the Redis subscription and broadcasts each
// decoded notification to every registered subscriber on the channel.
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		var event entities.CatalogEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			b.logger.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal event payload")
			continue
		}

		b.mu.RLock()
		subs := make([]chan *entities.CatalogEvent, len(b.subscribers[channel]))
		copy(subs, b.subscribers[channel])
		b.mu.RUnlock()

		for _, sub := range subs {
			select {
			case sub <- &event:
			default:
				b.logger.Warn().Str("channel", channel).Msg("subscriber buffer full, dropping event")
			}
		}
	}

	b.mu.Lock()
	b.cleanupChannel(channel)
	b.mu.Unlock()
}

// Unsubscribe tears down the subscription for a channel and closes all
// subscriber channels registered on it
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pubsub, ok := b.subscriptions[channel]
	if !ok {
		return nil
	}
	if err := pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}
	// receiveMessages exits once the subscription closes and cleans up the
	// subscriber channels; removing the entry here prevents reuse meanwhile.
	delete(b.subscriptions, channel)
	return nil
}

// cleanupChannel drops all subscriber channels for a channel whose Redis
// subscription has terminated. Caller must hold the write lock.
func (b *RedisEventBus) cleanupChannel(channel string) {
	for _, sub := range b.subscribers[channel] {
		close(sub)
	}
	delete(b.subscribers, channel)
	delete(b.subscriptions, channel)
}

// Close shuts down all subscriptions and subscriber channels
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			b.logger.Warn().Err(err).Str("channel", channel).Msg("failed to close subscription")
		}
	}
	b.subscriptions = make(map[string]*redis.PubSub)
	return nil
}
