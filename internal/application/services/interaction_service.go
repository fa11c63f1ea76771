package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// InteractionService handles recording of user interactions with events
type InteractionService struct {
	interactions repositories.InteractionRepository
	events       repositories.EventRepository
	users        repositories.UserRepository
	bus          providers.EventBus
	logger       zerolog.Logger
}

// NewInteractionService creates a new interaction service. bus may be nil.
func NewInteractionService(
	interactions repositories.InteractionRepository,
	events repositories.EventRepository,
	users repositories.UserRepository,
	bus providers.EventBus,
	logger zerolog.Logger,
) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		events:       events,
		users:        users,
		bus:          bus,
		logger:       logger.With().Str("component", "interactions").Logger(),
	}
}

// Record upserts the interaction for (userID, eventID) and returns the stored
// record. The first call for a pair creates the record and stamps its
// InteractionDate; later calls only update the liked/assisted flags.
func (s *InteractionService) Record(ctx context.Context, userID, eventID string, liked, assisted bool) (*entities.EventInteraction, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if eventID == "" {
		return nil, apperrors.NewValidationError("event id is required")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", userID))
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	stored, err := s.interactions.Upsert(ctx, &entities.EventInteraction{
		UserID:   userID,
		EventID:  eventID,
		Liked:    liked,
		Assisted: assisted,
	})
	if err != nil {
		return nil, err
	}

	// Best effort: a lost notification only delays recommendation freshness.
	if s.bus != nil {
		notification := entities.NewCatalogEvent(eventID, entities.CatalogEventTypeInteractionRecorded, map[string]interface{}{
			"liked":    stored.Liked,
			"assisted": stored.Assisted,
		})
		notification.UserID = userID
		if err := s.bus.Publish(ctx, providers.ChannelInteractions, notification); err != nil {
			s.logger.Warn().Err(err).Str("event_id", eventID).Msg("failed to publish interaction notification")
		}
	}

	return stored, nil
}

// History returns all interactions recorded by a user
func (s *InteractionService) History(ctx context.Context, userID string) ([]*entities.EventInteraction, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", userID))
	}

	return s.interactions.ListByUser(ctx, userID)
}
