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
	"github.com/soundseekers/discovery-backend/pkg/config"
)

var testRecoConfig = config.RecommendationConfig{
	GenreAffinityWeight: 0.5,
	RecencyWeight:       0.3,
	PopularityWeight:    0.2,
	RecencyHorizonDays:  90,
}

type recoFixture struct {
	svc          *services.RecommendationService
	events       *memory.EventStore
	interactions *memory.InteractionStore
	now          time.Time
}

func newRecoFixture(t *testing.T) *recoFixture {
	t.Helper()
	f := &recoFixture{
		events:       memory.NewEventStore(),
		interactions: memory.NewInteractionStore(),
		now:          time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
	discovery := services.NewDiscoveryService(f.events, nil, zerolog.Nop())
	f.svc = services.NewRecommendationService(f.events, f.interactions, discovery, testRecoConfig, zerolog.Nop())
	f.svc.SetClock(func() time.Time { return f.now })
	return f
}

func (f *recoFixture) addEvent(t *testing.T, id string, genres ...entities.Genre) {
	t.Helper()
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: id, Name: id, Genres: genres, IsActive: true,
	}))
}

func (f *recoFixture) interact(t *testing.T, userID, eventID string, liked, assisted bool, at time.Time) {
	t.Helper()
	f.interactions.SetClock(func() time.Time { return at })
	_, err := f.interactions.Upsert(context.Background(), &entities.EventInteraction{
		UserID: userID, EventID: eventID, Liked: liked, Assisted: assisted,
	})
	require.NoError(t, err)
}

func idsOf(scored []services.ScoredEvent) []string {
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.Event.ID
	}
	return ids
}

func TestRecommend_ColdStartUsesPopularityOnly(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "popular", entities.GenreRock)
	f.addEvent(t, "modest", entities.GenreJazz)
	f.addEvent(t, "unknown", entities.GenreTango)

	weekAgo := f.now.AddDate(0, 0, -7)
	f.interact(t, "other1", "popular", true, false, weekAgo)
	f.interact(t, "other2", "popular", true, false, weekAgo)
	f.interact(t, "other1", "modest", true, false, weekAgo)

	scored, err := f.svc.Recommend(context.Background(), "newcomer", services.RecommendOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"popular", "modest", "unknown"}, idsOf(scored))

	// No history means no taste signal contributes
	assert.Zero(t, scored[0].ScoreBreakdown["genre_affinity"])
	assert.Zero(t, scored[0].ScoreBreakdown["recency"])
	assert.Greater(t, scored[0].ScoreBreakdown["popularity"], 0.0)
}

func TestRecommend_GenreAffinityRanksMatchingCandidatesFirst(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "liked-rock", entities.GenreRock)
	f.addEvent(t, "new-rock", entities.GenreRock)
	f.addEvent(t, "new-jazz", entities.GenreJazz)

	f.interact(t, "u1", "liked-rock", true, true, f.now.AddDate(0, 0, -10))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)

	// liked-rock was attended, so only the two new events compete
	require.Equal(t, []string{"new-rock", "new-jazz"}, idsOf(scored))
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestRecommend_ExcludesAttendedEventsFromDefaultCandidates(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "attended", entities.GenreRock)
	f.addEvent(t, "fresh", entities.GenreRock)

	f.interact(t, "u1", "attended", false, true, f.now.AddDate(0, 0, -5))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, idsOf(scored))
}

func TestRecommend_RecencyFavorsFresherTasteSignal(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "old-taste", entities.GenreJazz)
	f.addEvent(t, "new-taste", entities.GenreRock)
	f.addEvent(t, "candidate-jazz", entities.GenreJazz)
	f.addEvent(t, "candidate-rock", entities.GenreRock)

	// Both liked events attended so they drop out of the candidate set
	f.interact(t, "u1", "old-taste", true, true, f.now.AddDate(0, 0, -80))
	f.interact(t, "u1", "new-taste", true, true, f.now.AddDate(0, 0, -5))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)

	// Equal affinity and popularity; only recency separates the candidates
	require.Equal(t, []string{"candidate-rock", "candidate-jazz"}, idsOf(scored))
	assert.InDelta(t, scored[0].ScoreBreakdown["genre_affinity"], scored[1].ScoreBreakdown["genre_affinity"], 1e-9)
	assert.Greater(t, scored[0].ScoreBreakdown["recency"], scored[1].ScoreBreakdown["recency"])
}

func TestRecommend_TieBreaksByEventIDForDeterminism(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "c-event", entities.GenreFolk)
	f.addEvent(t, "a-event", entities.GenreFolk)
	f.addEvent(t, "b-event", entities.GenreFolk)

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-event", "b-event", "c-event"}, idsOf(scored))

	// Repeated calls produce the identical ranking
	again, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	assert.Equal(t, idsOf(scored), idsOf(again))
}

func TestRecommend_LimitTruncatesRanking(t *testing.T) {
	f := newRecoFixture(t)
	for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		f.addEvent(t, id, entities.GenrePop)
	}

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, scored, 2)
}

func TestRecommend_FilterNarrowsCandidates(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "rock", entities.GenreRock)
	f.addEvent(t, "jazz", entities.GenreJazz)

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{
		Filter: &repositories.EventFilter{Genres: []entities.Genre{entities.GenreJazz}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, idsOf(scored))
}

func TestRecommend_ProximityNarrowsCandidates(t *testing.T) {
	f := newRecoFixture(t)
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "near", Location: entities.Location{Latitude: 0, Longitude: 0.1},
	}))
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "far", Location: entities.Location{Latitude: 0, Longitude: 10},
	}))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{
		Proximity: &repositories.ProximityParams{Latitude: 0, Longitude: 0, RadiusKm: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"near"}, idsOf(scored))
}

func TestRecommend_FilterAndProximityIntersect(t *testing.T) {
	f := newRecoFixture(t)
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "near-rock", Genres: []entities.Genre{entities.GenreRock},
		Location: entities.Location{Latitude: 0, Longitude: 0.1},
	}))
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "near-jazz", Genres: []entities.Genre{entities.GenreJazz},
		Location: entities.Location{Latitude: 0, Longitude: 0.1},
	}))
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "far-rock", Genres: []entities.Genre{entities.GenreRock},
		Location: entities.Location{Latitude: 0, Longitude: 10},
	}))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{
		Filter:    &repositories.EventFilter{Genres: []entities.Genre{entities.GenreRock}},
		Proximity: &repositories.ProximityParams{Latitude: 0, Longitude: 0, RadiusKm: 50},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"near-rock"}, idsOf(scored))
}

func TestRecommend_EmptyCandidateSetIsNotAnError(t *testing.T) {
	f := newRecoFixture(t)

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	assert.Empty(t, scored)
}

func TestRecommend_ScoreBreakdownSumsToScore(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "liked", entities.GenreRock)
	f.addEvent(t, "candidate", entities.GenreRock)

	f.interact(t, "u1", "liked", true, true, f.now.AddDate(0, 0, -15))
	f.interact(t, "other", "candidate", true, false, f.now.AddDate(0, 0, -2))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, scored)

	for _, s := range scored {
		sum := s.ScoreBreakdown["genre_affinity"] + s.ScoreBreakdown["recency"] + s.ScoreBreakdown["popularity"]
		assert.InDelta(t, s.Score, sum, 1e-9)
	}
}

// A liked rock event at the origin and an unliked jazz event one degree of
// longitude away (about 111.2 km along the equator).
func TestRecommend_LikedGenreOutranksUnliked(t *testing.T) {
	f := newRecoFixture(t)
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "A", Genres: []entities.Genre{entities.GenreRock}, Price: 20,
		Location: entities.Location{Latitude: 0, Longitude: 0},
	}))
	require.NoError(t, f.events.Create(context.Background(), &entities.Event{
		ID: "B", Genres: []entities.Genre{entities.GenreJazz}, Price: 50,
		Location: entities.Location{Latitude: 0, Longitude: 1},
	}))

	f.interact(t, "U", "A", true, false, f.now.AddDate(0, 0, -3))

	scored, err := f.svc.Recommend(context.Background(), "U", services.RecommendOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, idsOf(scored))

	wide, err := f.svc.Recommend(context.Background(), "U", services.RecommendOptions{
		Proximity: &repositories.ProximityParams{Latitude: 0, Longitude: 0, RadiusKm: 120},
	})
	require.NoError(t, err)
	assert.Len(t, wide, 2)

	tight, err := f.svc.Recommend(context.Background(), "U", services.RecommendOptions{
		Proximity: &repositories.ProximityParams{Latitude: 0, Longitude: 0, RadiusKm: 1},
	})
	require.NoError(t, err)
	require.Len(t, tight, 1)
	assert.Equal(t, "A", tight[0].Event.ID)
}

func TestRecommend_LikedEventRemovedFromCatalogStopsContributing(t *testing.T) {
	f := newRecoFixture(t)
	f.addEvent(t, "liked", entities.GenreRock)
	f.addEvent(t, "candidate", entities.GenreRock)

	f.interact(t, "u1", "liked", true, false, f.now.AddDate(0, 0, -5))
	require.NoError(t, f.events.Delete(context.Background(), "liked"))

	scored, err := f.svc.Recommend(context.Background(), "u1", services.RecommendOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"candidate"}, idsOf(scored))
	assert.Zero(t, scored[0].ScoreBreakdown["genre_affinity"])
}
