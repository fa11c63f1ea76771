package entities

import (
	"time"

	"github.com/google/uuid"
)

// CatalogEventType represents the type of change notification published on
// the event bus
type CatalogEventType string

const (
	CatalogEventTypeEventCreated        CatalogEventType = "event_created"
	CatalogEventTypeEventUpdated        CatalogEventType = "event_updated"
	CatalogEventTypeEventDeleted        CatalogEventType = "event_deleted"
	CatalogEventTypeInteractionRecorded CatalogEventType = "interaction_recorded"
)

// CatalogEvent represents a real-time change notification for the catalog or
// the interaction ledger
type CatalogEvent struct {
	ID        string                 `json:"id"`
	EventID   string                 `json:"event_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Type      CatalogEventType       `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// NewCatalogEvent creates a new catalog change notification
func NewCatalogEvent(eventID string, eventType CatalogEventType, payload map[string]interface{}) *CatalogEvent {
	return &CatalogEvent{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
