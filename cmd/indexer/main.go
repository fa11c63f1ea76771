package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/soundseekers/discovery-backend/internal/adapters/database"
	"github.com/soundseekers/discovery-backend/internal/adapters/search"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/typesense"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/observability"
	"github.com/soundseekers/discovery-backend/pkg/config"
)

// The indexer rebuilds the Typesense events collection from the database.
// It can run once or on a repeat interval for drift repair.
func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	observability.InitLogger("event-discovery-indexer", os.Getenv("APP_ENV"))
	logger := observability.GetLogger()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			logger.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			logger.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			logger.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		logger.Info().Dur("interval", interval).Msg("reindex complete, waiting for next run")

		select {
		case <-ctx.Done():
			logger.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	logger := observability.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		logger.Info().Msg("deleting events collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.EventsCollection).Delete(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	adapter := search.NewTypesenseAdapter(tsClient)
	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	eventRepo := database.NewEventAdapter(pgClient)
	events, err := eventRepo.List(ctx)
	if err != nil {
		return err
	}

	logger.Info().Int("count", len(events)).Msg("indexing events")

	indexed := 0
	for _, event := range events {
		if event == nil {
			continue
		}
		if err := adapter.Index(ctx, event); err != nil {
			logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to index event")
			continue
		}
		indexed++
	}

	logger.Info().Int("indexed", indexed).Msg("indexing complete")
	return nil
}
