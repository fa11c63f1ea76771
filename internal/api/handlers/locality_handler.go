package handlers

import (
	"net/http"

	"github.com/soundseekers/discovery-backend/internal/application/services"
)

// LocalityHandler handles locality HTTP requests
type LocalityHandler struct {
	localityService *services.LocalityService
}

// NewLocalityHandler creates a new locality handler
func NewLocalityHandler(localityService *services.LocalityService) *LocalityHandler {
	return &LocalityHandler{
		localityService: localityService,
	}
}

// ListLocalities handles GET /api/localities
func (h *LocalityHandler) ListLocalities(w http.ResponseWriter, r *http.Request) {
	localities, err := h.localityService.ListAll(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"localities": localities,
		"count":      len(localities),
	})
}
