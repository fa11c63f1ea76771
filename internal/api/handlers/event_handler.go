package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// EventHandler handles event catalog HTTP requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// eventRequest is the JSON body for creating or updating an event
type eventRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	StartsAt    string   `json:"starts_at"`
	EndsAt      string   `json:"ends_at"`
	Price       float64  `json:"price"`
	VenueName   string   `json:"venue_name"`
	LocalityID  string   `json:"locality_id"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

// toEntity converts the request body to an event entity
func (req *eventRequest) toEntity() (*entities.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, err
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, err
	}

	return &entities.Event{
		Name:        req.Name,
		Description: req.Description,
		Genres:      entities.GenresFromStrings(req.Genres),
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Price:       req.Price,
		VenueName:   req.VenueName,
		LocalityID:  req.LocalityID,
		Location: entities.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		IsActive: true,
	}, nil
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := req.toEntity()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid timestamp format, expected RFC3339")
		return
	}

	if err := h.eventService.Create(r.Context(), event); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	event, err := h.eventService.GetByID(r.Context(), eventID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := req.toEntity()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid timestamp format, expected RFC3339")
		return
	}
	event.ID = eventID

	if err := h.eventService.Update(r.Context(), event); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGenres handles GET /api/genres
func (h *EventHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"genres": entities.AllGenres,
	})
}

// ReindexEvents handles POST /api/admin/reindex
func (h *EventHandler) ReindexEvents(w http.ResponseWriter, r *http.Request) {
	count, err := h.eventService.Reindex(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"indexed": count,
	})
}
