package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	recommendationService *services.RecommendationService
	metrics               *observability.Metrics
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendationService *services.RecommendationService, metrics *observability.Metrics) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		metrics:               metrics,
	}
}

// GetRecommendations handles GET /api/users/{id}/recommendations
//
// Optional query parameters narrow the candidate set: the advanced filter
// parameters (name, genres, start_date, end_date, min_price, max_price),
// a proximity triple (lat, lon, radius), and limit for top-K truncation.
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	opts, err := parseRecommendOptions(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	scored, svcErr := h.recommendationService.Recommend(r.Context(), userID, opts)
	if svcErr != nil {
		respondWithAppError(w, svcErr)
		return
	}
	observability.RecordRecommendMetric(r.Context(), h.metrics, len(scored), time.Since(start))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": scored,
		"count":           len(scored),
	})
}

// parseRecommendOptions extracts recommendation options from query parameters
func parseRecommendOptions(r *http.Request) (services.RecommendOptions, error) {
	query := r.URL.Query()
	opts := services.RecommendOptions{}

	filter, err := parseEventFilter(r)
	if err != nil {
		return opts, err
	}
	if !filter.IsEmpty() {
		opts.Filter = &filter
	}

	// The proximity triple is all-or-nothing
	latRaw, lonRaw, radiusRaw := query.Get("lat"), query.Get("lon"), query.Get("radius")
	if latRaw != "" || lonRaw != "" || radiusRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			return opts, errInvalidParam("lat")
		}
		lon, err := strconv.ParseFloat(lonRaw, 64)
		if err != nil {
			return opts, errInvalidParam("lon")
		}
		radius, err := strconv.ParseFloat(radiusRaw, 64)
		if err != nil {
			return opts, errInvalidParam("radius")
		}
		opts.Proximity = &repositories.ProximityParams{
			Latitude:  lat,
			Longitude: lon,
			RadiusKm:  radius,
		}
	}

	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil || limit <= 0 {
			return opts, errInvalidParam("limit")
		}
		opts.Limit = limit
	}

	return opts, nil
}
