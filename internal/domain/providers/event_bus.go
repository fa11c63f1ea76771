package providers

import (
	"context"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to catalog
// and interaction change notifications
type EventBus interface {
	// Publish publishes a notification to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error

	// Subscribe subscribes to notifications on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Channel constants for the different notification streams
const (
	// ChannelCatalogUpdates carries create/update/delete notifications for events
	ChannelCatalogUpdates = "catalog:updates"

	// ChannelInteractions carries interaction-recorded notifications
	ChannelInteractions = "interactions:recorded"

	// channelEventPrefix is the prefix for per-event channels
	channelEventPrefix = "catalog:event:"
)

// EventChannel returns the channel name for a specific event
func EventChannel(eventID string) string {
	return channelEventPrefix + eventID
}
