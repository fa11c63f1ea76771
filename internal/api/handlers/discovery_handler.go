package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
)

// DiscoveryHandler handles event discovery HTTP requests
type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryService *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
	}
}

// FilterEvents handles GET /api/events/filter
//
// Query parameters: name, genres (comma-separated), start_date, end_date
// (RFC3339), min_price, max_price. All parameters are optional; omitting all
// of them returns the full catalog.
func (h *DiscoveryHandler) FilterEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, svcErr := h.discoveryService.SearchByFilters(r.Context(), filter)
	if svcErr != nil {
		respondWithAppError(w, svcErr)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// NearbyEvents handles GET /api/events/nearby?lat=X&lon=Y&radius=Z
func (h *DiscoveryHandler) NearbyEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid latitude parameter")
		return
	}

	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid longitude parameter")
		return
	}

	radius, err := strconv.ParseFloat(query.Get("radius"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
		return
	}

	events, svcErr := h.discoveryService.SearchByProximity(r.Context(), repositories.ProximityParams{
		Latitude:  lat,
		Longitude: lon,
		RadiusKm:  radius,
	})
	if svcErr != nil {
		respondWithAppError(w, svcErr)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// SearchEvents handles GET /api/events/search?q=text
func (h *DiscoveryHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := repositories.SearchParams{
		Query: query.Get("q"),
		Limit: 20,
	}

	if genres := query.Get("genres"); genres != "" {
		params.Genres = entities.GenresFromStrings(strings.Split(genres, ","))
	}
	if lat := query.Get("lat"); lat != "" {
		parsed, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid latitude parameter")
			return
		}
		params.Latitude = parsed
	}
	if lon := query.Get("lon"); lon != "" {
		parsed, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid longitude parameter")
			return
		}
		params.Longitude = parsed
	}
	if radius := query.Get("radius"); radius != "" {
		parsed, err := strconv.ParseFloat(radius, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid radius parameter")
			return
		}
		params.RadiusKm = parsed
	}
	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		params.Limit = parsed
	}
	if offset := query.Get("offset"); offset != "" {
		parsed, err := strconv.Atoi(offset)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid offset parameter")
			return
		}
		params.Offset = parsed
	}
	minPrice, maxPrice, err := parsePriceRange(query.Get("min_price"), query.Get("max_price"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	params.MinPrice = minPrice
	params.MaxPrice = maxPrice

	events, svcErr := h.discoveryService.SearchText(r.Context(), params)
	if svcErr != nil {
		respondWithAppError(w, svcErr)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// parseEventFilter extracts an advanced filter from request query parameters
func parseEventFilter(r *http.Request) (repositories.EventFilter, error) {
	query := r.URL.Query()

	filter := repositories.EventFilter{
		Name: query.Get("name"),
	}

	if genres := query.Get("genres"); genres != "" {
		filter.Genres = entities.GenresFromStrings(strings.Split(genres, ","))
	}

	if startDate := query.Get("start_date"); startDate != "" {
		parsed, err := parseDateParam(startDate)
		if err != nil {
			return filter, errInvalidParam("start_date")
		}
		filter.StartDate = parsed
	}
	if endDate := query.Get("end_date"); endDate != "" {
		parsed, err := parseDateParam(endDate)
		if err != nil {
			return filter, errInvalidParam("end_date")
		}
		filter.EndDate = parsed
	}

	minPrice, maxPrice, err := parsePriceRange(query.Get("min_price"), query.Get("max_price"))
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice
	filter.MaxPrice = maxPrice

	return filter, nil
}

// parseDateParam accepts RFC3339 timestamps and plain dates (2006-01-02)
func parseDateParam(value string) (*time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parsePriceRange parses the optional min_price and max_price parameters
func parsePriceRange(minRaw, maxRaw string) (*float64, *float64, error) {
	var minPrice, maxPrice *float64

	if minRaw != "" {
		parsed, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return nil, nil, errInvalidParam("min_price")
		}
		minPrice = &parsed
	}
	if maxRaw != "" {
		parsed, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return nil, nil, errInvalidParam("max_price")
		}
		maxPrice = &parsed
	}

	return minPrice, maxPrice, nil
}

type paramError string

func (e paramError) Error() string {
	return "invalid " + string(e) + " parameter"
}

func errInvalidParam(name string) error {
	return paramError(name)
}
