package repositories

import (
	"context"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
)

// LocalityRepository defines the interface for locality lookups
type LocalityRepository interface {
	// ListAll retrieves all known localities
	ListAll(ctx context.Context) ([]*entities.Locality, error)

	// GetByID retrieves a locality by ID
	GetByID(ctx context.Context, id string) (*entities.Locality, error)
}
