package entities

import (
	"time"
)

// Event represents a music or cultural event in the catalog
type Event struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Genres      []Genre   `json:"genres" db:"-"`
	StartsAt    time.Time `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time `json:"ends_at" db:"ends_at"`
	Price       float64   `json:"price" db:"price"`
	VenueName   string    `json:"venue_name" db:"venue_name"`
	LocalityID  string    `json:"locality_id,omitempty" db:"locality_id"`
	Location    Location  `json:"location" db:"-"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// HasAnyGenre reports whether the event shares at least one genre with the
// given set. An empty query set never matches.
func (e *Event) HasAnyGenre(genres []Genre) bool {
	return GenresIntersect(e.Genres, genres)
}
