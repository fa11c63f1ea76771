package repositories

import (
	"context"
	"time"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// InteractionRepository defines the interface for the interaction ledger.
// Upserts for a single (user, event) pair are serialized by the
// implementation; concurrent upserts for different pairs proceed in parallel.
type InteractionRepository interface {
	// Upsert inserts the interaction for (UserID, EventID) or, when one
	// already exists, updates its Liked/Assisted flags. InteractionDate is set
	// on first insert and preserved on every later update. The stored record
	// is returned.
	Upsert(ctx context.Context, interaction *entities.EventInteraction) (*entities.EventInteraction, error)

	// GetByUserAndEvent retrieves the interaction for a (user, event) pair
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*entities.EventInteraction, error)

	// ListByUser retrieves all interactions recorded by a user
	ListByUser(ctx context.Context, userID string) ([]*entities.EventInteraction, error)

	// LikeCounts returns the aggregate like count per event across all users
	LikeCounts(ctx context.Context) (map[string]int, error)

	// ListLikedSince retrieves a user's liked interactions newer than the
	// given time, used for recency-weighted scoring
	ListLikedSince(ctx context.Context, userID string, since time.Time) ([]*entities.EventInteraction, error)
}
