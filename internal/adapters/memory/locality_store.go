package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// LocalityStore is an in-memory LocalityRepository. Safe for concurrent use.
type LocalityStore struct {
	mu         sync.RWMutex
	localities map[string]*entities.Locality
}

// NewLocalityStore creates an in-memory locality store seeded with the given
// localities
func NewLocalityStore(localities ...*entities.Locality) *LocalityStore {
	s := &LocalityStore{localities: make(map[string]*entities.Locality)}
	for _, l := range localities {
		stored := *l
		s.localities[l.ID] = &stored
	}
	return s
}

var _ repositories.LocalityRepository = (*LocalityStore)(nil)

// ListAll retrieves all known localities ordered by name
func (s *LocalityStore) ListAll(_ context.Context) ([]*entities.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	localities := make([]*entities.Locality, 0, len(s.localities))
	for _, l := range s.localities {
		stored := *l
		localities = append(localities, &stored)
	}
	sort.Slice(localities, func(i, j int) bool { return localities[i].Name < localities[j].Name })
	return localities, nil
}

// GetByID retrieves a locality by ID
func (s *LocalityStore) GetByID(_ context.Context, id string) (*entities.Locality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locality, ok := s.localities[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("locality with id %s not found", id))
	}
	stored := *locality
	return &stored, nil
}
