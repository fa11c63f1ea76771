package services

import (
	"context"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
)

// LocalityService handles locality lookups
type LocalityService struct {
	repo repositories.LocalityRepository
}

// NewLocalityService creates a new locality service
func NewLocalityService(repo repositories.LocalityRepository) *LocalityService {
	return &LocalityService{repo: repo}
}

// ListAll retrieves all known localities
func (s *LocalityService) ListAll(ctx context.Context) ([]*entities.Locality, error) {
	return s.repo.ListAll(ctx)
}
