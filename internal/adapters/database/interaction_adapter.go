package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

const interactionsTable = "event_interactions"

// InteractionAdapter implements InteractionRepository against PostgreSQL.
// Per-pair serialization rides on the unique (user_id, event_id) index and
// ON CONFLICT DO UPDATE, so concurrent upserts never lose flag updates.
type InteractionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInteractionAdapter creates a new interaction adapter
func NewInteractionAdapter(client *postgres.Client) *InteractionAdapter {
	return &InteractionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.InteractionRepository = (*InteractionAdapter)(nil)

// Upsert inserts or updates the interaction for (UserID, EventID).
// interaction_date is only written on insert; updates leave it untouched.
func (a *InteractionAdapter) Upsert(ctx context.Context, interaction *entities.EventInteraction) (*entities.EventInteraction, error) {
	if interaction.UserID == "" || interaction.EventID == "" {
		return nil, apperrors.NewValidationError("user id and event id are required")
	}

	query := `
		INSERT INTO event_interactions (id, user_id, event_id, liked, assisted, interaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, event_id) DO UPDATE
			SET liked = EXCLUDED.liked, assisted = EXCLUDED.assisted
		RETURNING id, user_id, event_id, liked, assisted, interaction_date
	`

	stored := &entities.EventInteraction{}
	err := a.client.DB().QueryRowContext(ctx, query,
		uuid.NewString(),
		interaction.UserID,
		interaction.EventID,
		interaction.Liked,
		interaction.Assisted,
		time.Now(),
	).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.EventID,
		&stored.Liked,
		&stored.Assisted,
		&stored.InteractionDate,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "serialization_failure" {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("concurrent interaction update for user %s and event %s", interaction.UserID, interaction.EventID))
		}
		return nil, apperrors.NewInternalError("failed to upsert interaction", err)
	}
	return stored, nil
}

// GetByUserAndEvent retrieves the interaction for a (user, event) pair
func (a *InteractionAdapter) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*entities.EventInteraction, error) {
	query, args, err := a.db.Select("id", "user_id", "event_id", "liked", "assisted", "interaction_date").
		From(interactionsTable).
		Where(goqu.Ex{"user_id": userID, "event_id": eventID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	stored := &entities.EventInteraction{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.EventID,
		&stored.Liked,
		&stored.Assisted,
		&stored.InteractionDate,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("no interaction for user %s and event %s", userID, eventID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get interaction", err)
	}
	return stored, nil
}

// ListByUser retrieves all interactions recorded by a user
func (a *InteractionAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.EventInteraction, error) {
	query, args, err := a.db.Select("id", "user_id", "event_id", "liked", "assisted", "interaction_date").
		From(interactionsTable).
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryInteractions(ctx, query, args...)
}

// LikeCounts returns the aggregate like count per event across all users
func (a *InteractionAdapter) LikeCounts(ctx context.Context) (map[string]int, error) {
	query, args, err := a.db.Select("event_id", goqu.COUNT("*").As("likes")).
		From(interactionsTable).
		Where(goqu.Ex{"liked": true}).
		GroupBy("event_id").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query like counts", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventID string
		var likes int
		if err := rows.Scan(&eventID, &likes); err != nil {
			return nil, apperrors.NewInternalError("failed to scan like count", err)
		}
		counts[eventID] = likes
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating like counts", err)
	}
	return counts, nil
}

// ListLikedSince retrieves a user's liked interactions newer than since
func (a *InteractionAdapter) ListLikedSince(ctx context.Context, userID string, since time.Time) ([]*entities.EventInteraction, error) {
	query, args, err := a.db.Select("id", "user_id", "event_id", "liked", "assisted", "interaction_date").
		From(interactionsTable).
		Where(goqu.Ex{"user_id": userID, "liked": true}, goqu.C("interaction_date").Gte(since)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryInteractions(ctx, query, args...)
}

func (a *InteractionAdapter) queryInteractions(ctx context.Context, query string, args ...interface{}) ([]*entities.EventInteraction, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query interactions", err)
	}
	defer rows.Close()

	interactions := []*entities.EventInteraction{}
	for rows.Next() {
		record := &entities.EventInteraction{}
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.EventID,
			&record.Liked,
			&record.Assisted,
			&record.InteractionDate,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan interaction", err)
		}
		interactions = append(interactions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating interactions", err)
	}
	return interactions, nil
}
