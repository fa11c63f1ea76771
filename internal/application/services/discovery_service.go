package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// DiscoveryService handles advanced filtering and proximity search over the
// event catalog. It validates request parameters and delegates the query to
// the repository; the search index is preferred for text queries when
// available, falling back to the database.
type DiscoveryService struct {
	repo       repositories.EventRepository
	searchRepo repositories.EventSearchRepository
	logger     zerolog.Logger
}

// NewDiscoveryService creates a new discovery service. searchRepo may be nil.
func NewDiscoveryService(repo repositories.EventRepository, searchRepo repositories.EventSearchRepository, logger zerolog.Logger) *DiscoveryService {
	return &DiscoveryService{
		repo:       repo,
		searchRepo: searchRepo,
		logger:     logger.With().Str("component", "discovery").Logger(),
	}
}

// SearchByFilters retrieves events matching the conjunction of all present
// filter fields. An empty filter returns the full catalog. Inverted explicit
// ranges produce an empty result by policy, never an error.
func (s *DiscoveryService) SearchByFilters(ctx context.Context, filter repositories.EventFilter) ([]*entities.Event, error) {
	for _, g := range filter.Genres {
		if !g.IsValid() {
			return nil, apperrors.NewValidationError("unknown genre: " + string(g))
		}
	}

	return s.repo.FindByAdvancedFilters(ctx, filter)
}

// SearchByProximity retrieves events within RadiusKm of the query point,
// ordered by distance ascending. Out-of-range coordinates or a negative
// radius fail with a validation error.
func (s *DiscoveryService) SearchByProximity(ctx context.Context, params repositories.ProximityParams) ([]*entities.Event, error) {
	if err := geo.ValidateCoordinates(params.Latitude, params.Longitude); err != nil {
		return nil, err
	}
	if err := geo.ValidateRadius(params.RadiusKm); err != nil {
		return nil, err
	}

	return s.repo.FindByProximity(ctx, params)
}

// SearchText runs a free-text query against the search index when one is
// configured; otherwise it degrades to a name-substring filter against the
// database.
func (s *DiscoveryService) SearchText(ctx context.Context, params repositories.SearchParams) ([]*entities.Event, error) {
	if params.RadiusKm > 0 {
		if err := geo.ValidateCoordinates(params.Latitude, params.Longitude); err != nil {
			return nil, err
		}
	}

	if s.searchRepo != nil {
		events, err := s.searchRepo.Search(ctx, params)
		if err == nil {
			return events, nil
		}
		s.logger.Warn().Err(err).Msg("search index query failed, falling back to database")
	}

	return s.repo.FindByAdvancedFilters(ctx, repositories.EventFilter{
		Name:     params.Query,
		Genres:   params.Genres,
		MinPrice: params.MinPrice,
		MaxPrice: params.MaxPrice,
	})
}
