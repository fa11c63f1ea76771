package repositories

import (
	"context"
	"time"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// EventRepository defines the interface for event catalog operations
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *entities.Event) error

	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*entities.Event, error)

	// GetByIDs retrieves multiple events by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Event, error)

	// Update updates an event
	Update(ctx context.Context, event *entities.Event) error

	// Delete deletes an event
	Delete(ctx context.Context, id string) error

	// List retrieves the full catalog; no ordering is guaranteed
	List(ctx context.Context) ([]*entities.Event, error)

	// FindByAdvancedFilters retrieves events matching the conjunction of all
	// present filter fields. An empty filter returns the full catalog. An
	// inverted explicit range (min > max) yields an empty result, not an error.
	FindByAdvancedFilters(ctx context.Context, filter EventFilter) ([]*entities.Event, error)

	// FindByProximity retrieves events whose haversine distance from the query
	// point is at most RadiusKm, ordered by distance ascending. The boundary
	// distance == radius is inclusive.
	FindByProximity(ctx context.Context, params ProximityParams) ([]*entities.Event, error)
}

// EventSearchRepository defines the interface for the external search index
// (e.g. Typesense)
type EventSearchRepository interface {
	// Search searches events by text, genre, price, and location
	Search(ctx context.Context, params SearchParams) ([]*entities.Event, error)

	// Index indexes an event
	Index(ctx context.Context, event *entities.Event) error

	// Delete removes an event from the index
	Delete(ctx context.Context, id string) error
}

// EventFilter defines the optional predicates of an advanced filter query.
// Nil / empty fields impose no constraint on their dimension.
type EventFilter struct {
	Name      string
	Genres    []entities.Genre
	StartDate *time.Time
	EndDate   *time.Time
	MinPrice  *float64
	MaxPrice  *float64
}

// IsEmpty reports whether no predicate is present
func (f EventFilter) IsEmpty() bool {
	return f.Name == "" && len(f.Genres) == 0 &&
		f.StartDate == nil && f.EndDate == nil &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// ProximityParams defines a geographic radius query. Radius is kilometers.
type ProximityParams struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// SearchParams defines parameters for the external search index
type SearchParams struct {
	Query     string
	Genres    []entities.Genre
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	MinPrice  *float64
	MaxPrice  *float64
	Limit     int
	Offset    int
}
