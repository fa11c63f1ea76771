package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	tsclient "github.com/soundseekers/discovery-backend/internal/infrastructure/clients/typesense"
)

const collectionName = "events"

// TypesenseAdapter implements event search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements EventSearchRepository
var _ repositories.EventSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the events collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "genres", Type: "string[]", Facet: pointer.True()},
			{Name: "price", Type: "float"},
			{Name: "venue_name", Type: "string"},
			{Name: "is_active", Type: "bool"},
			{Name: "location", Type: "geopoint"},
			{Name: "starts_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("starts_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index indexes an event
func (a *TypesenseAdapter) Index(ctx context.Context, event *entities.Event) error {
	document := map[string]interface{}{
		"id":          event.ID,
		"name":        event.Name,
		"description": event.Description,
		"genres":      entities.GenresToStrings(event.Genres),
		"price":       event.Price,
		"venue_name":  event.VenueName,
		"is_active":   event.IsActive,
		"location":    []float64{event.Location.Latitude, event.Location.Longitude},
		"starts_at":   event.StartsAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}

	return nil
}

// Delete removes an event from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event from index: %w", err)
	}
	return nil
}

// Search searches events by text, genre, price, and location
func (a *TypesenseAdapter) Search(ctx context.Context, params repositories.SearchParams) ([]*entities.Event, error) {
	query := params.Query
	if query == "" {
		query = "*"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("name,description,venue_name"),
		FilterBy: pointer.String(buildFilterBy(params)),
		Page:     pointer.Int(params.Offset/limit + 1),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	events := []*entities.Event{}
	if result.Hits == nil {
		return events, nil
	}
	for _, hit := range *result.Hits {
		doc := *hit.Document
		events = append(events, documentToEvent(doc))
	}

	return events, nil
}

// buildFilterBy assembles the Typesense filter expression from search params
func buildFilterBy(params repositories.SearchParams) string {
	clauses := []string{"is_active:=true"}

	if params.RadiusKm > 0 {
		clauses = append(clauses, fmt.Sprintf("location:(%f, %f, %f km)",
			params.Latitude, params.Longitude, params.RadiusKm))
	}
	if len(params.Genres) > 0 {
		clauses = append(clauses, fmt.Sprintf("genres:=[%s]",
			strings.Join(entities.GenresToStrings(params.Genres), ",")))
	}
	if params.MinPrice != nil {
		clauses = append(clauses, fmt.Sprintf("price:>=%f", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("price:<=%f", *params.MaxPrice))
	}

	return strings.Join(clauses, " && ")
}

// documentToEvent reconstructs a partial event from a Typesense document.
// Typesense returns map[string]interface{}, so a missing or mistyped field
// leaves the zero value; callers needing the full record should fetch it from
// the database by ID.
func documentToEvent(doc map[string]interface{}) *entities.Event {
	event := &entities.Event{}

	if val, ok := doc["id"].(string); ok {
		event.ID = val
	}
	if val, ok := doc["name"].(string); ok {
		event.Name = val
	}
	if val, ok := doc["description"].(string); ok {
		event.Description = val
	}
	if val, ok := doc["venue_name"].(string); ok {
		event.VenueName = val
	}
	if val, ok := doc["is_active"].(bool); ok {
		event.IsActive = val
	}
	if val, ok := doc["price"].(float64); ok {
		event.Price = val
	}
	if raw, ok := doc["genres"].([]interface{}); ok {
		names := make([]string, 0, len(raw))
		for _, g := range raw {
			if s, ok := g.(string); ok {
				names = append(names, s)
			}
		}
		event.Genres = entities.GenresFromStrings(names)
	}
	if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
		if lat, ok := loc[0].(float64); ok {
			event.Location.Latitude = lat
		}
		if lon, ok := loc[1].(float64); ok {
			event.Location.Longitude = lon
		}
	}
	if val, ok := doc["starts_at"].(float64); ok {
		event.StartsAt = time.Unix(int64(val), 0).UTC()
	}

	return event
}
