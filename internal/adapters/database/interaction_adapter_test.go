package database_test

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundseekers/discovery-backend/internal/adapters/database"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

var interactionRowColumns = []string{"id", "user_id", "event_id", "liked", "assisted", "interaction_date"}

func newInteractionAdapter(t *testing.T) (*database.InteractionAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewInteractionAdapter(postgres.NewClientFromDB(db)), mock
}

func TestInteractionAdapterUpsert(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)
	recordedAt := time.Date(2026, 8, 10, 21, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT INTO event_interactions.+ON CONFLICT \(user_id, event_id\) DO UPDATE`).
		WithArgs(sqlmock.AnyArg(), "u1", "e1", true, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(interactionRowColumns).
			AddRow("i1", "u1", "e1", true, false, recordedAt))

	stored, err := adapter.Upsert(context.Background(), &entities.EventInteraction{
		UserID: "u1", EventID: "e1", Liked: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", stored.ID)
	assert.True(t, stored.Liked)
	assert.False(t, stored.Assisted)
	assert.Equal(t, recordedAt, stored.InteractionDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionAdapterUpsertRequiresIDs(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)

	_, err := adapter.Upsert(context.Background(), &entities.EventInteraction{UserID: "u1"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = adapter.Upsert(context.Background(), &entities.EventInteraction{EventID: "e1"})
	assert.True(t, apperrors.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionAdapterGetByUserAndEventNotFound(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)

	mock.ExpectQuery(`SELECT .+ FROM "event_interactions" WHERE`).
		WillReturnRows(sqlmock.NewRows(interactionRowColumns))

	_, err := adapter.GetByUserAndEvent(context.Background(), "u1", "e1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionAdapterListByUser(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`SELECT .+ FROM "event_interactions" WHERE`).
		WillReturnRows(sqlmock.NewRows(interactionRowColumns).
			AddRow("i1", "u1", "e1", true, false, now).
			AddRow("i2", "u1", "e2", false, true, now))

	interactions, err := adapter.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, interactions, 2)
	assert.Equal(t, "e1", interactions[0].EventID)
	assert.True(t, interactions[1].Assisted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionAdapterLikeCounts(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)

	mock.ExpectQuery(`SELECT .+ FROM "event_interactions" WHERE .+GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "likes"}).
			AddRow("e1", 3).
			AddRow("e2", 1))

	counts, err := adapter.LikeCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"e1": 3, "e2": 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInteractionAdapterListLikedSince(t *testing.T) {
	adapter, mock := newInteractionAdapter(t)
	now := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery(`SELECT .+ FROM "event_interactions" WHERE`).
		WillReturnRows(sqlmock.NewRows(interactionRowColumns).
			AddRow("i1", "u1", "e1", true, false, now))

	interactions, err := adapter.ListLikedSince(context.Background(), "u1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.True(t, interactions[0].Liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
