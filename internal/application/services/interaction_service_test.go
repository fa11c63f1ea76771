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
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

type interactionFixture struct {
	svc          *services.InteractionService
	events       *memory.EventStore
	users        *memory.UserStore
	interactions *memory.InteractionStore
}

func newInteractionFixture(t *testing.T) *interactionFixture {
	t.Helper()
	f := &interactionFixture{
		events:       memory.NewEventStore(),
		users:        memory.NewUserStore(),
		interactions: memory.NewInteractionStore(),
	}
	f.svc = services.NewInteractionService(f.interactions, f.events, f.users, nil, zerolog.Nop())

	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &entities.User{ID: "u1", Name: "Lucía", Email: "lucia@example.com"}))
	require.NoError(t, f.events.Create(ctx, &entities.Event{ID: "e1", Name: "Jazz Night"}))
	return f
}

func TestInteractionService_Record(t *testing.T) {
	f := newInteractionFixture(t)

	stored, err := f.svc.Record(context.Background(), "u1", "e1", true, false)
	require.NoError(t, err)
	assert.True(t, stored.Liked)
	assert.False(t, stored.Assisted)
	assert.NotEmpty(t, stored.ID)
}

func TestInteractionService_Record_IsIdempotentPerPair(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	first, err := f.svc.Record(ctx, "u1", "e1", true, false)
	require.NoError(t, err)
	second, err := f.svc.Record(ctx, "u1", "e1", true, true)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Assisted)

	history, err := f.svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestInteractionService_Record_UnknownUser(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.Record(context.Background(), "ghost", "e1", true, false)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInteractionService_Record_UnknownEvent(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.Record(context.Background(), "u1", "ghost", true, false)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInteractionService_Record_EmptyIDs(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.Record(context.Background(), "", "e1", true, false)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Record(context.Background(), "u1", "", true, false)
	assert.True(t, apperrors.IsValidation(err))
}

func TestInteractionService_History_UnknownUser(t *testing.T) {
	f := newInteractionFixture(t)

	_, err := f.svc.History(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInteractionService_Record_PreservesFirstInteractionDate(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	firstAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f.interactions.SetClock(func() time.Time { return firstAt })

	first, err := f.svc.Record(ctx, "u1", "e1", true, false)
	require.NoError(t, err)

	f.interactions.SetClock(func() time.Time { return firstAt.AddDate(0, 1, 0) })
	second, err := f.svc.Record(ctx, "u1", "e1", false, true)
	require.NoError(t, err)

	assert.Equal(t, first.InteractionDate, second.InteractionDate)
}
