// Package memory provides in-memory implementations of the repository
// contracts. They honor the exact same query semantics as the Postgres
// adapters and back unit tests and local runs without external services.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// EventStore is an in-memory EventRepository. Safe for concurrent use.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*entities.Event
}

// NewEventStore creates an empty in-memory event store
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]*entities.Event),
	}
}

var _ repositories.EventRepository = (*EventStore)(nil)

// Create creates a new event
func (s *EventStore) Create(_ context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("event %s already exists", event.ID))
	}
	s.events[event.ID] = cloneEvent(event)
	return nil
}

// GetByID retrieves an event by ID
func (s *EventStore) GetByID(_ context.Context, id string) (*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}
	return cloneEvent(event), nil
}

// GetByIDs retrieves multiple events by their IDs; missing IDs are skipped
func (s *EventStore) GetByIDs(_ context.Context, ids []string) ([]*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*entities.Event, 0, len(ids))
	for _, id := range ids {
		if event, ok := s.events[id]; ok {
			events = append(events, cloneEvent(event))
		}
	}
	return events, nil
}

// Update updates an event
func (s *EventStore) Update(_ context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", event.ID))
	}
	s.events[event.ID] = cloneEvent(event)
	return nil
}

// Delete deletes an event
func (s *EventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}
	delete(s.events, id)
	return nil
}

// List retrieves the full catalog
func (s *EventStore) List(_ context.Context) ([]*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*entities.Event, 0, len(s.events))
	for _, event := range s.events {
		events = append(events, cloneEvent(event))
	}
	return events, nil
}

// FindByAdvancedFilters retrieves events matching the conjunction of all
// present filter fields
func (s *EventStore) FindByAdvancedFilters(_ context.Context, filter repositories.EventFilter) ([]*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*entities.Event, 0)
	for _, event := range s.events {
		if MatchesFilter(event, filter) {
			events = append(events, cloneEvent(event))
		}
	}
	return events, nil
}

// FindByProximity retrieves events within RadiusKm of the query point,
// ordered by distance ascending then event ID for a stable order
func (s *EventStore) FindByProximity(_ context.Context, params repositories.ProximityParams) ([]*entities.Event, error) {
	if err := geo.ValidateCoordinates(params.Latitude, params.Longitude); err != nil {
		return nil, err
	}
	if err := geo.ValidateRadius(params.RadiusKm); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scoredEvent struct {
		event    *entities.Event
		distance float64
	}

	matches := make([]scoredEvent, 0)
	for _, event := range s.events {
		d := geo.Distance(params.Latitude, params.Longitude, event.Location.Latitude, event.Location.Longitude)
		if d <= params.RadiusKm {
			matches = append(matches, scoredEvent{event: cloneEvent(event), distance: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].event.ID < matches[j].event.ID
	})

	events := make([]*entities.Event, len(matches))
	for i, m := range matches {
		events[i] = m.event
	}
	return events, nil
}

// MatchesFilter reports whether an event satisfies every present predicate of
// the filter. Absent fields impose no constraint. An inverted explicit range
// (min > max) matches nothing, which makes the whole query empty rather than
// an error.
func MatchesFilter(event *entities.Event, filter repositories.EventFilter) bool {
	if filter.Name != "" &&
		!strings.Contains(strings.ToLower(event.Name), strings.ToLower(filter.Name)) {
		return false
	}

	if len(filter.Genres) > 0 && !event.HasAnyGenre(filter.Genres) {
		return false
	}

	if filter.StartDate != nil && event.StartsAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && event.StartsAt.After(*filter.EndDate) {
		return false
	}

	if filter.MinPrice != nil && event.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && event.Price > *filter.MaxPrice {
		return false
	}

	return true
}

func cloneEvent(event *entities.Event) *entities.Event {
	clone := *event
	clone.Genres = append([]entities.Genre(nil), event.Genres...)
	return &clone
}
