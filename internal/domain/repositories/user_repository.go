package repositories

import (
	"context"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// UserRepository defines the interface for user identity lookups
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// Exists reports whether a user with the given ID exists
	Exists(ctx context.Context, id string) (bool, error)
}
