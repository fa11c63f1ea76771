package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/soundseekers/discovery-backend/internal/adapters/database"
	"github.com/soundseekers/discovery-backend/internal/adapters/search"
	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/typesense"
	"github.com/soundseekers/discovery-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
	}

	eventRepo := database.NewEventAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	interactionRepo := database.NewInteractionAdapter(pgClient)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				event_interactions,
				events,
				users,
				localities
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed localities (Buenos Aires metro area)
	localities := []entities.Locality{
		{ID: uuid.New().String(), Name: "Palermo", Province: "Buenos Aires", Centroid: entities.Location{Latitude: -34.5889, Longitude: -58.4306}},
		{ID: uuid.New().String(), Name: "San Telmo", Province: "Buenos Aires", Centroid: entities.Location{Latitude: -34.6211, Longitude: -58.3736}},
		{ID: uuid.New().String(), Name: "La Plata", Province: "Buenos Aires", Centroid: entities.Location{Latitude: -34.9215, Longitude: -57.9545}},
		{ID: uuid.New().String(), Name: "Rosario", Province: "Santa Fe", Centroid: entities.Location{Latitude: -32.9442, Longitude: -60.6505}},
		{ID: uuid.New().String(), Name: "Córdoba", Province: "Córdoba", Centroid: entities.Location{Latitude: -31.4201, Longitude: -64.1888}},
	}

	for _, l := range localities {
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO localities (id, name, province, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, l.ID, l.Name, l.Province, l.Centroid.Latitude, l.Centroid.Longitude)
		if err != nil {
			log.Printf("Failed to create locality %s: %v", l.Name, err)
		}
	}

	// 2. Seed users
	users := []entities.User{
		{ID: uuid.New().String(), Name: "Lucía Fernández", Email: "lucia@example.com", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Martín López", Email: "martin@example.com", CreatedAt: time.Now()},
		{ID: uuid.New().String(), Name: "Sofía García", Email: "sofia@example.com", CreatedAt: time.Now()},
	}

	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Printf("Failed to create user %s: %v", users[i].Name, err)
		}
	}

	// 3. Seed events
	now := time.Now()
	events := []entities.Event{
		{
			ID:          uuid.New().String(),
			Name:        "Noche de Rock Nacional",
			Description: "Tributo a los clásicos del rock argentino",
			Genres:      []entities.Genre{entities.GenreRock},
			StartsAt:    now.AddDate(0, 0, 14),
			EndsAt:      now.AddDate(0, 0, 14).Add(4 * time.Hour),
			Price:       8500,
			VenueName:   "Luna Park",
			LocalityID:  localities[1].ID,
			Location:    entities.Location{Latitude: -34.6025, Longitude: -58.3689},
			IsActive:    true,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Festival de Jazz en Palermo",
			Description: "Tres escenarios al aire libre con artistas locales e internacionales",
			Genres:      []entities.Genre{entities.GenreJazz, entities.GenreFolk},
			StartsAt:    now.AddDate(0, 0, 21),
			EndsAt:      now.AddDate(0, 0, 23),
			Price:       0,
			VenueName:   "Parque Tres de Febrero",
			LocalityID:  localities[0].ID,
			Location:    entities.Location{Latitude: -34.5711, Longitude: -58.4167},
			IsActive:    true,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Sunset Electrónico",
			Description: "DJ sets desde el atardecer hasta la madrugada",
			Genres:      []entities.Genre{entities.GenreElectronic},
			StartsAt:    now.AddDate(0, 0, 7),
			EndsAt:      now.AddDate(0, 0, 8),
			Price:       12000,
			VenueName:   "Mandarine Park",
			LocalityID:  localities[0].ID,
			Location:    entities.Location{Latitude: -34.5644, Longitude: -58.4094},
			IsActive:    true,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Milonga del Centro",
			Description: "Clase abierta de tango y baile social",
			Genres:      []entities.Genre{entities.GenreTango},
			StartsAt:    now.AddDate(0, 0, 3),
			EndsAt:      now.AddDate(0, 0, 3).Add(5 * time.Hour),
			Price:       3000,
			VenueName:   "Confitería Ideal",
			LocalityID:  localities[1].ID,
			Location:    entities.Location{Latitude: -34.6045, Longitude: -58.3789},
			IsActive:    true,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Cumbia en el Río",
			Description: "Festival de cumbia y música tropical",
			Genres:      []entities.Genre{entities.GenreCumbia},
			StartsAt:    now.AddDate(0, 1, 0),
			EndsAt:      now.AddDate(0, 1, 0).Add(8 * time.Hour),
			Price:       6000,
			VenueName:   "Costanera Rosario",
			LocalityID:  localities[3].ID,
			Location:    entities.Location{Latitude: -32.9300, Longitude: -60.6600},
			IsActive:    true,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Sinfónica de Primavera",
			Description: "Concierto de música clásica de la orquesta provincial",
			Genres:      []entities.Genre{entities.GenreClassical},
			StartsAt:    now.AddDate(0, 0, 30),
			EndsAt:      now.AddDate(0, 0, 30).Add(3 * time.Hour),
			Price:       5500,
			VenueName:   "Teatro Argentino",
			LocalityID:  localities[2].ID,
			Location:    entities.Location{Latitude: -34.9187, Longitude: -57.9530},
			IsActive:    true,
		},
	}

	for i := range events {
		events[i].CreatedAt = now
		events[i].UpdatedAt = now
		if err := eventRepo.Create(ctx, &events[i]); err != nil {
			log.Printf("Failed to create event %s: %v", events[i].Name, err)
			continue
		}
		if searchRepo != nil {
			if err := searchRepo.Index(ctx, &events[i]); err != nil {
				log.Printf("Failed to index event %s: %v", events[i].Name, err)
			}
		}
	}

	// 4. Seed a few interactions so recommendations have signal
	interactions := []entities.EventInteraction{
		{ID: uuid.New().String(), UserID: users[0].ID, EventID: events[0].ID, Liked: true, Assisted: true, InteractionDate: now.AddDate(0, 0, -10)},
		{ID: uuid.New().String(), UserID: users[0].ID, EventID: events[2].ID, Liked: true, Assisted: false, InteractionDate: now.AddDate(0, 0, -3)},
		{ID: uuid.New().String(), UserID: users[1].ID, EventID: events[1].ID, Liked: true, Assisted: false, InteractionDate: now.AddDate(0, 0, -20)},
		{ID: uuid.New().String(), UserID: users[1].ID, EventID: events[3].ID, Liked: false, Assisted: true, InteractionDate: now.AddDate(0, 0, -5)},
		{ID: uuid.New().String(), UserID: users[2].ID, EventID: events[0].ID, Liked: true, Assisted: false, InteractionDate: now.AddDate(0, 0, -1)},
	}

	for i := range interactions {
		if _, err := interactionRepo.Upsert(ctx, &interactions[i]); err != nil {
			log.Printf("Failed to record interaction: %v", err)
		}
	}

	log.Printf("Seeded %d localities, %d users, %d events, %d interactions",
		len(localities), len(users), len(events), len(interactions))
}
