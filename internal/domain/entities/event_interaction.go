package entities

import (
	"time"
)

// EventInteraction records a user's engagement with an event. There is one
// logical record per (user, event) pair; Liked and Assisted are updated by
// subsequent interaction calls while InteractionDate keeps the time of the
// first interaction.
type EventInteraction struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	EventID         string    `json:"event_id" db:"event_id"`
	Liked           bool      `json:"liked" db:"liked"`
	Assisted        bool      `json:"assisted" db:"assisted"`
	InteractionDate time.Time `json:"interaction_date" db:"interaction_date"`
}
