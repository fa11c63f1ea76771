package entities

import (
	"time"
)

// User represents a user in the system. Authentication and credentials are
// handled by an external collaborator; this core only needs the identity.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
