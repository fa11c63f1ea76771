package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundseekers/discovery-backend/internal/adapters/cache"
	"github.com/soundseekers/discovery-backend/internal/adapters/database"
	"github.com/soundseekers/discovery-backend/internal/adapters/events"
	"github.com/soundseekers/discovery-backend/internal/adapters/search"
	"github.com/soundseekers/discovery-backend/internal/api/handlers"
	"github.com/soundseekers/discovery-backend/internal/api/middleware"
	"github.com/soundseekers/discovery-backend/internal/api/routes"
	"github.com/soundseekers/discovery-backend/internal/application/services"
	"github.com/soundseekers/discovery-backend/internal/domain/providers"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/redis"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/typesense"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
	"github.com/soundseekers/discovery-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	logger.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the application degrades gracefully without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, continuing without caching")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize Typesense client; text search falls back to the database
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Typesense client, text search degraded")
		typesenseClient = nil
	} else {
		logger.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		logger.Info().Msg("event bus initialized")
	} else {
		logger.Info().Msg("event bus disabled, Redis not available")
	}

	// Initialize adapters
	baseEventAdapter := database.NewEventAdapter(pgClient)

	var eventRepo repositories.EventRepository
	if cacheProvider != nil {
		eventRepo = database.NewCachedEventAdapter(baseEventAdapter, cacheProvider, *logger)
		logger.Info().Msg("event adapter wrapped with caching layer")
	} else {
		eventRepo = baseEventAdapter
	}

	interactionRepo := database.NewInteractionAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	localityRepo := database.NewLocalityAdapter(pgClient)

	var searchRepo repositories.EventSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	// Initialize services
	eventService := services.NewEventService(eventRepo, searchRepo, eventBus, *logger)
	discoveryService := services.NewDiscoveryService(eventRepo, searchRepo, *logger)
	recommendationService := services.NewRecommendationService(
		eventRepo, interactionRepo, discoveryService, cfg.Recommendation, *logger)
	interactionService := services.NewInteractionService(
		interactionRepo, eventRepo, userRepo, eventBus, *logger)
	localityService := services.NewLocalityService(localityRepo)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(eventService)
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, metrics)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	userHandler := handlers.NewUserHandler(userRepo)
	localityHandler := handlers.NewLocalityHandler(localityService)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		eventHandler,
		discoveryHandler,
		recommendationHandler,
		interactionHandler,
		userHandler,
		localityHandler,
		sseHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}

	logger.Info().Msg("server stopped")
}
