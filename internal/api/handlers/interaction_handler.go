package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/soundseekers/discovery-backend/internal/application/services"
)

// InteractionHandler handles interaction ledger HTTP requests
type InteractionHandler struct {
	interactionService *services.InteractionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

// interactionRequest is the JSON body for recording an interaction
type interactionRequest struct {
	UserID   string `json:"user_id"`
	Liked    bool   `json:"liked"`
	Assisted bool   `json:"assisted"`
}

// RecordInteraction handles POST /api/events/{id}/interactions
func (h *InteractionHandler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interaction, err := h.interactionService.Record(r.Context(), req.UserID, eventID, req.Liked, req.Assisted)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, interaction)
}

// GetUserHistory handles GET /api/users/{id}/interactions
func (h *InteractionHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	history, err := h.interactionService.History(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interactions": history,
		"count":        len(history),
	})
}
