package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/pkg/config"
)

// RecommendOptions carries the optional context of a recommendation call
type RecommendOptions struct {
	// Filter narrows the candidate set with an advanced filter query
	Filter *repositories.EventFilter

	// Proximity narrows the candidate set to a geographic radius
	Proximity *repositories.ProximityParams

	// Limit truncates the ranked result to the top K events; zero returns all
	Limit int
}

// ScoredEvent is a candidate event with its composite score
type ScoredEvent struct {
	Event          *entities.Event    `json:"event"`
	Score          float64            `json:"score"`
	LikeCount      int                `json:"like_count"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

// likedSignal pairs the genre set of a liked event with the time the like
// was recorded
type likedSignal struct {
	genres  []entities.Genre
	likedAt time.Time
}

// RecommendationService ranks candidate events for a user by a weighted
// combination of genre affinity, interaction recency, and global popularity.
// It is a pure computation over current catalog and ledger snapshots; the
// snapshots may be stale relative to each other.
type RecommendationService struct {
	events       repositories.EventRepository
	interactions repositories.InteractionRepository
	discovery    *DiscoveryService

	wGenre     float64
	wRecency   float64
	wPopular   float64
	horizon    time.Duration
	defaultCap int

	now    func() time.Time
	logger zerolog.Logger
}

// NewRecommendationService creates a new recommendation service with the
// given scoring weights. Weights are normalized so only their ratios matter.
func NewRecommendationService(
	events repositories.EventRepository,
	interactions repositories.InteractionRepository,
	discovery *DiscoveryService,
	cfg config.RecommendationConfig,
	logger zerolog.Logger,
) *RecommendationService {
	wg, wr, wp := normalizeWeights(cfg.GenreAffinityWeight, cfg.RecencyWeight, cfg.PopularityWeight)

	return &RecommendationService{
		events:       events,
		interactions: interactions,
		discovery:    discovery,
		wGenre:       wg,
		wRecency:     wr,
		wPopular:     wp,
		horizon:      time.Duration(cfg.RecencyHorizonDays) * 24 * time.Hour,
		defaultCap:   cfg.DefaultLimit,
		now:          time.Now,
		logger:       logger.With().Str("component", "recommend").Logger(),
	}
}

// SetClock overrides the clock used for recency decay, for tests
func (s *RecommendationService) SetClock(now func() time.Time) {
	s.now = now
}

// Recommend returns events ranked for the user. A user with no interaction
// history receives a popularity-only ranking; an empty candidate set yields
// an empty list. Neither case is an error.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, opts RecommendOptions) ([]ScoredEvent, error) {
	history, err := s.interactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidateSet(ctx, history, opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []ScoredEvent{}, nil
	}

	likeCounts, err := s.interactions.LikeCounts(ctx)
	if err != nil {
		return nil, err
	}

	liked, err := s.likedProfile(ctx, history)
	if err != nil {
		return nil, err
	}

	maxLikes := 0
	for _, c := range candidates {
		if n := likeCounts[c.ID]; n > maxLikes {
			maxLikes = n
		}
	}

	scored := make([]ScoredEvent, len(candidates))
	for i, candidate := range candidates {
		scored[i] = s.score(candidate, liked, likeCounts[candidate.ID], maxLikes)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].LikeCount != scored[j].LikeCount {
			return scored[i].LikeCount > scored[j].LikeCount
		}
		return scored[i].Event.ID < scored[j].Event.ID
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultCap
	}
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Msg("computed recommendations")

	return scored, nil
}

// candidateSet determines the events under consideration. With a filter or
// proximity context the narrowed query result is used as-is; without one the
// full catalog minus the user's already-attended events is used.
func (s *RecommendationService) candidateSet(ctx context.Context, history []*entities.EventInteraction, opts RecommendOptions) ([]*entities.Event, error) {
	switch {
	case opts.Proximity != nil && opts.Filter != nil:
		nearby, err := s.discovery.SearchByProximity(ctx, *opts.Proximity)
		if err != nil {
			return nil, err
		}
		filtered, err := s.discovery.SearchByFilters(ctx, *opts.Filter)
		if err != nil {
			return nil, err
		}
		return intersectByID(nearby, filtered), nil

	case opts.Proximity != nil:
		return s.discovery.SearchByProximity(ctx, *opts.Proximity)

	case opts.Filter != nil:
		return s.discovery.SearchByFilters(ctx, *opts.Filter)

	default:
		all, err := s.events.List(ctx)
		if err != nil {
			return nil, err
		}

		attended := make(map[string]bool, len(history))
		for _, interaction := range history {
			if interaction.Assisted {
				attended[interaction.EventID] = true
			}
		}

		candidates := make([]*entities.Event, 0, len(all))
		for _, event := range all {
			if !attended[event.ID] {
				candidates = append(candidates, event)
			}
		}
		return candidates, nil
	}
}

// likedProfile resolves the genre sets and like times of the events the user
// has liked. Liked events that have since left the catalog stop contributing.
func (s *RecommendationService) likedProfile(ctx context.Context, history []*entities.EventInteraction) ([]likedSignal, error) {
	likedIDs := make([]string, 0, len(history))
	likedDates := make(map[string]time.Time, len(history))
	for _, interaction := range history {
		if interaction.Liked {
			likedIDs = append(likedIDs, interaction.EventID)
			likedDates[interaction.EventID] = interaction.InteractionDate
		}
	}
	if len(likedIDs) == 0 {
		return nil, nil
	}

	likedEvents, err := s.events.GetByIDs(ctx, likedIDs)
	if err != nil {
		return nil, err
	}

	liked := make([]likedSignal, 0, len(likedEvents))
	for _, event := range likedEvents {
		liked = append(liked, likedSignal{genres: event.Genres, likedAt: likedDates[event.ID]})
	}
	return liked, nil
}

// score computes the composite score of one candidate. Genre affinity is the
// fraction of the user's liked events sharing at least one genre with the
// candidate; recency applies exponential decay to the ages of those matching
// likes, so a taste signal fades as it grows older than the horizon;
// popularity is the like count normalized within the candidate set.
func (s *RecommendationService) score(candidate *entities.Event, liked []likedSignal, likeCount, maxLikes int) ScoredEvent {
	breakdown := make(map[string]float64, 3)

	affinity := 0.0
	recency := 0.0
	if len(liked) > 0 {
		now := s.now()
		matching := 0
		decaySum := 0.0
		for _, signal := range liked {
			if !entities.GenresIntersect(signal.genres, candidate.Genres) {
				continue
			}
			matching++
			age := now.Sub(signal.likedAt)
			if age < 0 {
				age = 0
			}
			decaySum += math.Exp(-float64(age) / float64(s.horizon))
		}
		affinity = float64(matching) / float64(len(liked))
		if matching > 0 {
			recency = decaySum / float64(matching)
		}
	}
	breakdown["genre_affinity"] = affinity * s.wGenre
	breakdown["recency"] = recency * s.wRecency

	popularity := 0.0
	if maxLikes > 0 {
		popularity = float64(likeCount) / float64(maxLikes)
	}
	breakdown["popularity"] = popularity * s.wPopular

	return ScoredEvent{
		Event:          candidate,
		Score:          breakdown["genre_affinity"] + breakdown["recency"] + breakdown["popularity"],
		LikeCount:      likeCount,
		ScoreBreakdown: breakdown,
	}
}

// normalizeWeights scales the weights to sum to 1.0, falling back to equal
// weights when all are zero
func normalizeWeights(wg, wr, wp float64) (float64, float64, float64) {
	sum := wg + wr + wp
	if sum == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return wg / sum, wr / sum, wp / sum
}

func intersectByID(a, b []*entities.Event) []*entities.Event {
	inB := make(map[string]bool, len(b))
	for _, event := range b {
		inB[event.ID] = true
	}
	out := make([]*entities.Event, 0, len(a))
	for _, event := range a {
		if inB[event.ID] {
			out = append(out, event)
		}
	}
	return out
}
