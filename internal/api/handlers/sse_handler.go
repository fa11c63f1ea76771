package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
)

// SSEHandler handles Server-Sent Events for real-time catalog updates
type SSEHandler struct {
	eventBus providers.EventBus
	logger   zerolog.Logger
	clients  map[string]map[chan *entities.CatalogEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		logger:   observability.GetLogger().With().Str("component", "sse").Logger(),
		clients:  make(map[string]map[chan *entities.CatalogEvent]bool),
	}
}

// StreamEventUpdates handles SSE connections for a single event's updates
// GET /api/stream/events/{id}
func (h *SSEHandler) StreamEventUpdates(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	h.stream(w, r, providers.EventChannel(eventID), map[string]interface{}{
		"event_id":  eventID,
		"timestamp": time.Now(),
	})
}

// StreamCatalogUpdates handles SSE connections for catalog-wide updates
// GET /api/stream/events
func (h *SSEHandler) StreamCatalogUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.ChannelCatalogUpdates, map[string]interface{}{
		"timestamp": time.Now(),
	})
}

// stream subscribes to a channel and forwards notifications to the client
// until it disconnects, with a periodic heartbeat to keep the connection open.
func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *entities.CatalogEvent, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		h.logger.Warn().Err(err).Str("channel", channel).Msg("failed to subscribe")
		return
	}

	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Str("channel", channel).Msg("client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards notifications from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.CatalogEvent, clientChan chan<- *entities.CatalogEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

// registerClient registers a client for a channel
func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.CatalogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.CatalogEvent]bool)
	}
	h.clients[channel][clientChan] = true
	h.logger.Debug().Str("channel", channel).Int("total", len(h.clients[channel])).Msg("client registered")
}

// unregisterClient unregisters a client from a channel
func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.CatalogEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// ClientCount returns the number of connected clients
func (h *SSEHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
