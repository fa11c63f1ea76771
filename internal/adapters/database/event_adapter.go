package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

const eventsTable = "events"

var eventColumns = []interface{}{
	"id", "name", "description", "genres", "starts_at", "ends_at",
	"price", "venue_name", "locality_id", "latitude", "longitude",
	"is_active", "created_at", "updated_at",
}

// EventAdapter implements EventRepository against PostgreSQL
type EventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEventAdapter creates a new event adapter
func NewEventAdapter(client *postgres.Client) *EventAdapter {
	return &EventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.EventRepository = (*EventAdapter)(nil)

// Create creates a new event
func (a *EventAdapter) Create(ctx context.Context, event *entities.Event) error {
	query, args, err := a.db.Insert(eventsTable).Rows(eventRecord(event)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create event", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (a *EventAdapter) GetByID(ctx context.Context, id string) (*entities.Event, error) {
	query, args, err := a.db.Select(eventColumns...).
		From(eventsTable).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	event, err := scanEvent(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get event", err)
	}
	return event, nil
}

// GetByIDs retrieves multiple events by their IDs
func (a *EventAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Event, error) {
	if len(ids) == 0 {
		return []*entities.Event{}, nil
	}

	query, args, err := a.db.Select(eventColumns...).
		From(eventsTable).
		Where(goqu.Ex{"id": ids, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryEvents(ctx, query, args...)
}

// Update updates an event
func (a *EventAdapter) Update(ctx context.Context, event *entities.Event) error {
	event.UpdatedAt = time.Now()

	query, args, err := a.db.Update(eventsTable).
		Set(eventRecord(event)).
		Where(goqu.Ex{"id": event.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update event", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", event.ID))
	}
	return nil
}

// Delete soft-deletes an event by marking it inactive
func (a *EventAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update(eventsTable).
		Set(goqu.Record{"is_active": false, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete event", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("event with id %s not found", id))
	}
	return nil
}

// List retrieves the full catalog
func (a *EventAdapter) List(ctx context.Context) ([]*entities.Event, error) {
	query, args, err := a.db.Select(eventColumns...).
		From(eventsTable).
		Where(goqu.Ex{"is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryEvents(ctx, query, args...)
}

// FindByAdvancedFilters retrieves events matching the conjunction of all
// present filter fields. Inverted explicit ranges produce contradictory
// predicates, so the query legitimately returns no rows rather than failing.
func (a *EventAdapter) FindByAdvancedFilters(ctx context.Context, filter repositories.EventFilter) ([]*entities.Event, error) {
	ds := a.db.Select(eventColumns...).
		From(eventsTable).
		Where(goqu.Ex{"is_active": true})

	if filter.Name != "" {
		ds = ds.Where(goqu.C("name").ILike("%" + filter.Name + "%"))
	}
	if len(filter.Genres) > 0 {
		ds = ds.Where(goqu.L("genres && ?", pq.Array(entities.GenresToStrings(filter.Genres))))
	}
	if filter.StartDate != nil {
		ds = ds.Where(goqu.C("starts_at").Gte(*filter.StartDate))
	}
	if filter.EndDate != nil {
		ds = ds.Where(goqu.C("starts_at").Lte(*filter.EndDate))
	}
	if filter.MinPrice != nil {
		ds = ds.Where(goqu.C("price").Gte(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		ds = ds.Where(goqu.C("price").Lte(*filter.MaxPrice))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build filter query", err)
	}

	return a.queryEvents(ctx, query, args...)
}

// FindByProximity retrieves events within RadiusKm of the query point using
// the haversine formula in SQL, ordered by distance ascending. PostGIS would
// serve larger catalogs; this keeps the dependency surface to plain Postgres.
func (a *EventAdapter) FindByProximity(ctx context.Context, params repositories.ProximityParams) ([]*entities.Event, error) {
	if err := geo.ValidateCoordinates(params.Latitude, params.Longitude); err != nil {
		return nil, err
	}
	if err := geo.ValidateRadius(params.RadiusKm); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, genres, starts_at, ends_at,
			price, venue_name, locality_id, latitude, longitude,
			is_active, created_at, updated_at
		FROM (
			SELECT *,
				(6371 * acos(least(1.0, greatest(-1.0,
					cos(radians($1)) * cos(radians(latitude)) *
					cos(radians(longitude) - radians($2)) +
					sin(radians($1)) * sin(radians(latitude))
				)))) AS distance_km
			FROM events
			WHERE is_active = true
		) nearby
		WHERE distance_km <= $3
		ORDER BY distance_km, id
	`

	return a.queryEvents(ctx, query, params.Latitude, params.Longitude, params.RadiusKm)
}

func (a *EventAdapter) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entities.Event, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query events", err)
	}
	defer rows.Close()

	events := []*entities.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating events", err)
	}
	return events, nil
}

func eventRecord(event *entities.Event) goqu.Record {
	return goqu.Record{
		"id":          event.ID,
		"name":        event.Name,
		"description": event.Description,
		"genres":      pq.Array(entities.GenresToStrings(event.Genres)),
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
		"price":       event.Price,
		"venue_name":  event.VenueName,
		"locality_id": sql.NullString{String: event.LocalityID, Valid: event.LocalityID != ""},
		"latitude":    event.Location.Latitude,
		"longitude":   event.Location.Longitude,
		"is_active":   event.IsActive,
		"created_at":  event.CreatedAt,
		"updated_at":  event.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*entities.Event, error) {
	event := &entities.Event{}
	var genres []string
	var localityID sql.NullString

	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Description,
		pq.Array(&genres),
		&event.StartsAt,
		&event.EndsAt,
		&event.Price,
		&event.VenueName,
		&localityID,
		&event.Location.Latitude,
		&event.Location.Longitude,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Genres = entities.GenresFromStrings(genres)
	event.LocalityID = localityID.String
	return event, nil
}
