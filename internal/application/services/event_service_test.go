package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundseekers/discovery-backend/internal/adapters/memory"
	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

func validEvent() *entities.Event {
	return &entities.Event{
		Name:     "Noche de Rock",
		Genres:   []entities.Genre{entities.GenreRock},
		StartsAt: time.Date(2026, 10, 1, 21, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 10, 2, 2, 0, 0, 0, time.UTC),
		Price:    8000,
		Location: entities.Location{Latitude: -34.6, Longitude: -58.38},
	}
}

func TestEventService_Create_AssignsIDAndTimestamps(t *testing.T) {
	store := memory.NewEventStore()
	svc := services.NewEventService(store, nil, nil, zerolog.Nop())

	event := validEvent()
	require.NoError(t, svc.Create(context.Background(), event))

	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.True(t, event.IsActive)

	stored, err := svc.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, stored.Name)
}

func TestEventService_Create_Validation(t *testing.T) {
	store := memory.NewEventStore()
	svc := services.NewEventService(store, nil, nil, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*entities.Event)
	}{
		{"missing name", func(e *entities.Event) { e.Name = "" }},
		{"latitude out of range", func(e *entities.Event) { e.Location.Latitude = 91 }},
		{"longitude out of range", func(e *entities.Event) { e.Location.Longitude = -181 }},
		{"negative price", func(e *entities.Event) { e.Price = -1 }},
		{"ends before it starts", func(e *entities.Event) { e.EndsAt = e.StartsAt.Add(-time.Hour) }},
		{"unknown genre", func(e *entities.Event) { e.Genres = []entities.Genre{"polka"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)
			err := svc.Create(ctx, event)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestEventService_Update_UnknownEvent(t *testing.T) {
	store := memory.NewEventStore()
	svc := services.NewEventService(store, nil, nil, zerolog.Nop())

	event := validEvent()
	event.ID = "missing"
	err := svc.Update(context.Background(), event)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEventService_Delete_UnknownEvent(t *testing.T) {
	store := memory.NewEventStore()
	svc := services.NewEventService(store, nil, nil, zerolog.Nop())

	err := svc.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEventService_Reindex(t *testing.T) {
	store := memory.NewEventStore()
	index := &recordingSearchRepo{}
	svc := services.NewEventService(store, index, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, validEvent()))
	second := validEvent()
	second.Name = "Festival de Jazz"
	require.NoError(t, svc.Create(ctx, second))

	index.indexed = nil // reset writes performed by Create
	count, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, index.indexed, 2)
}

func TestEventService_Reindex_NoIndexConfigured(t *testing.T) {
	svc := services.NewEventService(memory.NewEventStore(), nil, nil, zerolog.Nop())

	_, err := svc.Reindex(context.Background())
	assert.True(t, apperrors.IsValidation(err))
}

// recordingSearchRepo captures indexed events for assertions
type recordingSearchRepo struct {
	indexed []string
	deleted []string
}

func (r *recordingSearchRepo) Search(context.Context, repositories.SearchParams) ([]*entities.Event, error) {
	return nil, nil
}

func (r *recordingSearchRepo) Index(_ context.Context, event *entities.Event) error {
	r.indexed = append(r.indexed, event.ID)
	return nil
}

func (r *recordingSearchRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}
