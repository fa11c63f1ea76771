package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
)

// Cache TTLs (in seconds)
const (
	eventByIDTTL  = 300
	catalogTTL    = 120
	filterSetTTL  = 120
	proximityTTL  = 60
)

// CachedEventAdapter wraps an EventRepository with a Redis read-through
// cache. Writes invalidate the per-event key and the catalog key; query
// results expire on their own TTL, which is the staleness bound accepted by
// the recommendation engine.
type CachedEventAdapter struct {
	adapter repositories.EventRepository
	cache   providers.CacheProvider
	logger  zerolog.Logger
}

// NewCachedEventAdapter creates a new cached event adapter
func NewCachedEventAdapter(adapter repositories.EventRepository, cache providers.CacheProvider, logger zerolog.Logger) repositories.EventRepository {
	return &CachedEventAdapter{
		adapter: adapter,
		cache:   cache,
		logger:  logger.With().Str("component", "event-cache").Logger(),
	}
}

// Create creates a new event and invalidates catalog-level keys
func (a *CachedEventAdapter) Create(ctx context.Context, event *entities.Event) error {
	if err := a.adapter.Create(ctx, event); err != nil {
		return err
	}
	a.invalidate(ctx, catalogCacheKey())
	return nil
}

// GetByID retrieves an event by ID with caching
func (a *CachedEventAdapter) GetByID(ctx context.Context, id string) (*entities.Event, error) {
	key := eventCacheKey(id)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var event entities.Event
		if err := json.Unmarshal(cached, &event); err == nil {
			return &event, nil
		}
	}

	event, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(key, event, eventByIDTTL)
	return event, nil
}

// GetByIDs retrieves multiple events by their IDs, bypassing the cache
func (a *CachedEventAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Event, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// Update updates an event and invalidates its cache entries
func (a *CachedEventAdapter) Update(ctx context.Context, event *entities.Event) error {
	if err := a.adapter.Update(ctx, event); err != nil {
		return err
	}
	a.invalidate(ctx, eventCacheKey(event.ID), catalogCacheKey())
	return nil
}

// Delete deletes an event and invalidates its cache entries
func (a *CachedEventAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, eventCacheKey(id), catalogCacheKey())
	return nil
}

// List retrieves the full catalog with caching
func (a *CachedEventAdapter) List(ctx context.Context) ([]*entities.Event, error) {
	key := catalogCacheKey()

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var events []*entities.Event
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
	}

	events, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	a.store(key, events, catalogTTL)
	return events, nil
}

// FindByAdvancedFilters retrieves matching events with result caching
func (a *CachedEventAdapter) FindByAdvancedFilters(ctx context.Context, filter repositories.EventFilter) ([]*entities.Event, error) {
	key := filterCacheKey(filter)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var events []*entities.Event
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
	}

	events, err := a.adapter.FindByAdvancedFilters(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.store(key, events, filterSetTTL)
	return events, nil
}

// FindByProximity retrieves nearby events with result caching
func (a *CachedEventAdapter) FindByProximity(ctx context.Context, params repositories.ProximityParams) ([]*entities.Event, error) {
	key := proximityCacheKey(params)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var events []*entities.Event
		if err := json.Unmarshal(cached, &events); err == nil {
			return events, nil
		}
	}

	events, err := a.adapter.FindByProximity(ctx, params)
	if err != nil {
		return nil, err
	}

	a.store(key, events, proximityTTL)
	return events, nil
}

// store updates the cache in the background so responses never wait on Redis
func (a *CachedEventAdapter) store(key string, value interface{}, ttl int) {
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttl); err != nil {
			a.logger.Debug().Err(err).Str("key", key).Msg("failed to write cache")
		}
	}()
}

func (a *CachedEventAdapter) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := a.cache.Delete(ctx, key); err != nil {
			a.logger.Debug().Err(err).Str("key", key).Msg("failed to invalidate cache")
		}
	}
}

func eventCacheKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

func catalogCacheKey() string {
	return "events:catalog"
}

func filterCacheKey(filter repositories.EventFilter) string {
	var b strings.Builder
	b.WriteString("events:filter:")
	b.WriteString(strings.ToLower(filter.Name))

	genres := entities.GenresToStrings(filter.Genres)
	sort.Strings(genres)
	b.WriteString(":" + strings.Join(genres, ","))

	if filter.StartDate != nil {
		b.WriteString(":" + filter.StartDate.UTC().Format("20060102T150405"))
	}
	if filter.EndDate != nil {
		b.WriteString(":" + filter.EndDate.UTC().Format("20060102T150405"))
	}
	if filter.MinPrice != nil {
		b.WriteString(fmt.Sprintf(":%g", *filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		b.WriteString(fmt.Sprintf(":%g", *filter.MaxPrice))
	}
	return b.String()
}

func proximityCacheKey(params repositories.ProximityParams) string {
	// 4 decimal places is ~11m of precision, enough to share cache entries
	// between nearby callers
	return fmt.Sprintf("events:near:%.4f:%.4f:%g", params.Latitude, params.Longitude, params.RadiusKm)
}
