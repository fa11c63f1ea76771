package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundseekers/discovery-backend/internal/adapters/memory"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/pkg/geo"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

func ptrFloat(v float64) *float64 { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func seedEvents(t *testing.T, store *memory.EventStore, events ...*entities.Event) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, store.Create(context.Background(), e))
	}
}

func TestEventStore_CRUD(t *testing.T) {
	store := memory.NewEventStore()
	ctx := context.Background()

	event := &entities.Event{ID: "e1", Name: "Jazz Night", Genres: []entities.Genre{entities.GenreJazz}}
	require.NoError(t, store.Create(ctx, event))

	// Duplicate IDs conflict
	err := store.Create(ctx, &entities.Event{ID: "e1", Name: "other"})
	assert.True(t, apperrors.IsConflict(err))

	got, err := store.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", got.Name)

	// Mutating the returned copy must not affect the store
	got.Name = "mutated"
	again, err := store.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", again.Name)

	event.Name = "Jazz Evening"
	require.NoError(t, store.Update(ctx, event))
	updated, err := store.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Evening", updated.Name)

	require.NoError(t, store.Delete(ctx, "e1"))
	_, err = store.GetByID(ctx, "e1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(store.Delete(ctx, "e1")))
}

func TestEventStore_GetByIDs_SkipsMissing(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "e1", Name: "one"},
		&entities.Event{ID: "e2", Name: "two"},
	)

	events, err := store.GetByIDs(context.Background(), []string{"e1", "missing", "e2"})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventStore_FindByAdvancedFilters_EmptyFilterReturnsAll(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "e1", Name: "one"},
		&entities.Event{ID: "e2", Name: "two"},
		&entities.Event{ID: "e3", Name: "three"},
	)

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestEventStore_FindByAdvancedFilters_NameIsCaseInsensitiveSubstring(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "e1", Name: "Festival de Jazz en Palermo"},
		&entities.Event{ID: "e2", Name: "Noche de Rock"},
	)

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{Name: "JAZZ"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestEventStore_FindByAdvancedFilters_GenreOverlap(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "e1", Genres: []entities.Genre{entities.GenreRock, entities.GenreIndie}},
		&entities.Event{ID: "e2", Genres: []entities.Genre{entities.GenreJazz}},
		&entities.Event{ID: "e3", Genres: nil},
	)

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{
		Genres: []entities.Genre{entities.GenreIndie, entities.GenreTango},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}

func TestEventStore_FindByAdvancedFilters_DateBoundsInclusive(t *testing.T) {
	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "on-boundary", StartsAt: start},
		&entities.Event{ID: "before", StartsAt: start.Add(-time.Hour)},
		&entities.Event{ID: "after", StartsAt: start.Add(time.Hour)},
	)

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{
		StartDate: ptrTime(start),
		EndDate:   ptrTime(start),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "on-boundary", events[0].ID)
}

func TestEventStore_FindByAdvancedFilters_PriceRange(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "free", Price: 0},
		&entities.Event{ID: "cheap", Price: 3000},
		&entities.Event{ID: "pricey", Price: 12000},
	)

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{
		MinPrice: ptrFloat(0),
		MaxPrice: ptrFloat(3000),
	})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventStore_FindByAdvancedFilters_InvertedRangeIsEmptyNotError(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store, &entities.Event{ID: "e1", Price: 500})

	events, err := store.FindByAdvancedFilters(context.Background(), repositories.EventFilter{
		MinPrice: ptrFloat(1000),
		MaxPrice: ptrFloat(100),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStore_FindByProximity_SortedByDistance(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "far", Location: entities.Location{Latitude: 0, Longitude: 0.9}},
		&entities.Event{ID: "near", Location: entities.Location{Latitude: 0, Longitude: 0.1}},
		&entities.Event{ID: "mid", Location: entities.Location{Latitude: 0, Longitude: 0.5}},
		&entities.Event{ID: "outside", Location: entities.Location{Latitude: 0, Longitude: 5}},
	)

	events, err := store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: 0, Longitude: 0, RadiusKm: 120,
	})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "near", events[0].ID)
	assert.Equal(t, "mid", events[1].ID)
	assert.Equal(t, "far", events[2].ID)
}

func TestEventStore_FindByProximity_BoundaryInclusive(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store, &entities.Event{ID: "boundary", Location: entities.Location{Latitude: 0, Longitude: 1}})

	exact := geo.Distance(0, 0, 0, 1)

	events, err := store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: 0, Longitude: 0, RadiusKm: exact,
	})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: 0, Longitude: 0, RadiusKm: exact - 0.01,
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventStore_FindByProximity_ZeroRadiusMatchesColocated(t *testing.T) {
	store := memory.NewEventStore()
	seedEvents(t, store,
		&entities.Event{ID: "here", Location: entities.Location{Latitude: -34.6, Longitude: -58.4}},
		&entities.Event{ID: "there", Location: entities.Location{Latitude: -34.7, Longitude: -58.4}},
	)

	events, err := store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: -34.6, Longitude: -58.4, RadiusKm: 0,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "here", events[0].ID)
}

func TestEventStore_FindByProximity_RejectsInvalidParams(t *testing.T) {
	store := memory.NewEventStore()

	_, err := store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: 91, Longitude: 0, RadiusKm: 10,
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = store.FindByProximity(context.Background(), repositories.ProximityParams{
		Latitude: 0, Longitude: 0, RadiusKm: -5,
	})
	assert.True(t, apperrors.IsValidation(err))
}
