package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// EventService handles catalog management for events. The recommendation
// core only reads the catalog; all writes come through here.
type EventService struct {
	repo       repositories.EventRepository
	searchRepo repositories.EventSearchRepository
	bus        providers.EventBus
	logger     zerolog.Logger
}

// NewEventService creates a new event service. searchRepo and bus may be nil.
func NewEventService(repo repositories.EventRepository, searchRepo repositories.EventSearchRepository, bus providers.EventBus, logger zerolog.Logger) *EventService {
	return &EventService{
		repo:       repo,
		searchRepo: searchRepo,
		bus:        bus,
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// Create validates and creates a new event, indexes it, and publishes a
// catalog notification. Index and bus failures are logged, not fatal; the
// index catches up on the next reindex run.
func (s *EventService) Create(ctx context.Context, event *entities.Event) error {
	if err := s.validate(event); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.IsActive = true

	if err := s.repo.Create(ctx, event); err != nil {
		return err
	}

	s.syncIndex(ctx, event)
	s.publish(ctx, event.ID, entities.CatalogEventTypeEventCreated)
	return nil
}

// GetByID retrieves an event by ID
func (s *EventService) GetByID(ctx context.Context, id string) (*entities.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves the full catalog
func (s *EventService) List(ctx context.Context) ([]*entities.Event, error) {
	return s.repo.List(ctx)
}

// Update validates and updates an event and keeps the index in sync
func (s *EventService) Update(ctx context.Context, event *entities.Event) error {
	if err := s.validate(event); err != nil {
		return err
	}

	event.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, event); err != nil {
		return err
	}

	s.syncIndex(ctx, event)
	s.publish(ctx, event.ID, entities.CatalogEventTypeEventUpdated)
	return nil
}

// Delete deletes an event and removes it from the index
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("event_id", id).Msg("failed to delete event from index")
		}
	}
	s.publish(ctx, id, entities.CatalogEventTypeEventDeleted)
	return nil
}

// Reindex pushes the full catalog into the search index
func (s *EventService) Reindex(ctx context.Context) (int, error) {
	if s.searchRepo == nil {
		return 0, apperrors.NewValidationError("no search index configured")
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, event := range events {
		if err := s.searchRepo.Index(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to index event")
			continue
		}
		indexed++
	}
	return indexed, nil
}

func (s *EventService) validate(event *entities.Event) error {
	if event.Name == "" {
		return apperrors.NewValidationError("event name is required")
	}
	if err := geo.ValidateCoordinates(event.Location.Latitude, event.Location.Longitude); err != nil {
		return err
	}
	if event.Price < 0 {
		return apperrors.NewValidationError("event price must be non-negative")
	}
	if !event.EndsAt.IsZero() && event.EndsAt.Before(event.StartsAt) {
		return apperrors.NewValidationError("event must end after it starts")
	}
	for _, g := range event.Genres {
		if !g.IsValid() {
			return apperrors.NewValidationError("unknown genre: " + string(g))
		}
	}
	return nil
}

func (s *EventService) syncIndex(ctx context.Context, event *entities.Event) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to index event")
	}
}

func (s *EventService) publish(ctx context.Context, eventID string, kind entities.CatalogEventType) {
	if s.bus == nil {
		return
	}
	notification := entities.NewCatalogEvent(eventID, kind, nil)
	if err := s.bus.Publish(ctx, providers.ChannelCatalogUpdates, notification); err != nil {
		s.logger.Warn().Err(err).Str("event_id", eventID).Msg("failed to publish catalog notification")
	}
}
