package memory

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// stripeCount is the number of lock stripes for per-pair upsert
// serialization. Must be a power of two.
const stripeCount = 64

// InteractionStore is an in-memory interaction ledger. Upserts for the same
// (user, event) pair are serialized by striped locks so concurrent calls
// never lose updates; different pairs proceed in parallel.
type InteractionStore struct {
	mu      sync.RWMutex
	byPair  map[string]*entities.EventInteraction
	stripes [stripeCount]sync.Mutex
	now     func() time.Time
}

// NewInteractionStore creates an empty in-memory interaction ledger
func NewInteractionStore() *InteractionStore {
	return &InteractionStore{
		byPair: make(map[string]*entities.EventInteraction),
		now:    time.Now,
	}
}

var _ repositories.InteractionRepository = (*InteractionStore)(nil)

// SetClock overrides the clock used for InteractionDate, for tests
func (s *InteractionStore) SetClock(now func() time.Time) {
	s.now = now
}

// Upsert inserts or updates the interaction for (UserID, EventID). The
// InteractionDate of an existing record is preserved.
func (s *InteractionStore) Upsert(_ context.Context, interaction *entities.EventInteraction) (*entities.EventInteraction, error) {
	if interaction.UserID == "" || interaction.EventID == "" {
		return nil, apperrors.NewValidationError("user id and event id are required")
	}

	key := pairKey(interaction.UserID, interaction.EventID)
	stripe := &s.stripes[stripeIndex(key)]
	stripe.Lock()
	defer stripe.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byPair[key]; ok {
		existing.Liked = interaction.Liked
		existing.Assisted = interaction.Assisted
		stored := *existing
		return &stored, nil
	}

	record := &entities.EventInteraction{
		ID:              uuid.NewString(),
		UserID:          interaction.UserID,
		EventID:         interaction.EventID,
		Liked:           interaction.Liked,
		Assisted:        interaction.Assisted,
		InteractionDate: s.now(),
	}
	s.byPair[key] = record
	stored := *record
	return &stored, nil
}

// GetByUserAndEvent retrieves the interaction for a (user, event) pair
func (s *InteractionStore) GetByUserAndEvent(_ context.Context, userID, eventID string) (*entities.EventInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byPair[pairKey(userID, eventID)]
	if !ok {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("no interaction for user %s and event %s", userID, eventID))
	}
	stored := *record
	return &stored, nil
}

// ListByUser retrieves all interactions recorded by a user
func (s *InteractionStore) ListByUser(_ context.Context, userID string) ([]*entities.EventInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interactions := make([]*entities.EventInteraction, 0)
	for _, record := range s.byPair {
		if record.UserID == userID {
			stored := *record
			interactions = append(interactions, &stored)
		}
	}
	return interactions, nil
}

// LikeCounts returns the aggregate like count per event across all users
func (s *InteractionStore) LikeCounts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, record := range s.byPair {
		if record.Liked {
			counts[record.EventID]++
		}
	}
	return counts, nil
}

// ListLikedSince retrieves a user's liked interactions newer than since
func (s *InteractionStore) ListLikedSince(_ context.Context, userID string, since time.Time) ([]*entities.EventInteraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interactions := make([]*entities.EventInteraction, 0)
	for _, record := range s.byPair {
		if record.UserID == userID && record.Liked && !record.InteractionDate.Before(since) {
			stored := *record
			interactions = append(interactions, &stored)
		}
	}
	return interactions, nil
}

func pairKey(userID, eventID string) string {
	return userID + ":" + eventID
}

func stripeIndex(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() & (stripeCount - 1)
}
