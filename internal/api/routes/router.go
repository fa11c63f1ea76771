package routes

import (
	"net/http"

	"github.com/soundseekers/discovery-backend/internal/api/handlers"
	"github.com/soundseekers/discovery-backend/internal/api/middleware"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	eventHandler          *handlers.EventHandler
	discoveryHandler      *handlers.DiscoveryHandler
	recommendationHandler *handlers.RecommendationHandler
	interactionHandler    *handlers.InteractionHandler
	userHandler           *handlers.UserHandler
	localityHandler       *handlers.LocalityHandler
	sseHandler            *handlers.SSEHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	eventHandler *handlers.EventHandler,
	discoveryHandler *handlers.DiscoveryHandler,
	recommendationHandler *handlers.RecommendationHandler,
	interactionHandler *handlers.InteractionHandler,
	userHandler *handlers.UserHandler,
	localityHandler *handlers.LocalityHandler,
	sseHandler *handlers.SSEHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		eventHandler:          eventHandler,
		discoveryHandler:      discoveryHandler,
		recommendationHandler: recommendationHandler,
		interactionHandler:    interactionHandler,
		userHandler:           userHandler,
		localityHandler:       localityHandler,
		sseHandler:            sseHandler,
		cacheMiddleware:       cacheMiddleware,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Event catalog endpoints
	r.mux.HandleFunc("GET /api/events", r.eventHandler.ListEvents)
	r.mux.HandleFunc("POST /api/events", r.eventHandler.CreateEvent)
	r.mux.HandleFunc("GET /api/events/filter", r.discoveryHandler.FilterEvents)
	r.mux.HandleFunc("GET /api/events/nearby", r.discoveryHandler.NearbyEvents)
	r.mux.HandleFunc("GET /api/events/search", r.discoveryHandler.SearchEvents)
	r.mux.HandleFunc("GET /api/events/{id}", r.eventHandler.GetEvent)
	r.mux.HandleFunc("PUT /api/events/{id}", r.eventHandler.UpdateEvent)
	r.mux.HandleFunc("DELETE /api/events/{id}", r.eventHandler.DeleteEvent)

	// Interaction endpoints
	r.mux.HandleFunc("POST /api/events/{id}/interactions", r.interactionHandler.RecordInteraction)
	r.mux.HandleFunc("GET /api/users/{id}/interactions", r.interactionHandler.GetUserHistory)

	// Recommendation endpoints
	r.mux.HandleFunc("GET /api/users/{id}/recommendations", r.recommendationHandler.GetRecommendations)

	// User endpoints
	r.mux.HandleFunc("POST /api/users", r.userHandler.CreateUser)
	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.GetUser)

	// Reference data endpoints
	r.mux.HandleFunc("GET /api/localities", r.localityHandler.ListLocalities)
	r.mux.HandleFunc("GET /api/genres", r.eventHandler.ListGenres)

	// Admin endpoints
	r.mux.HandleFunc("POST /api/admin/reindex", r.eventHandler.ReindexEvents)

	// Streaming endpoints
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/events", r.sseHandler.StreamCatalogUpdates)
		r.mux.HandleFunc("GET /api/stream/events/{id}", r.sseHandler.StreamEventUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
