package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// UserStore is an in-memory UserRepository. Safe for concurrent use.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

// NewUserStore creates an empty in-memory user store
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*entities.User)}
}

var _ repositories.UserRepository = (*UserStore)(nil)

// Create creates a new user
func (s *UserStore) Create(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("user %s already exists", user.ID))
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

// GetByID retrieves a user by ID
func (s *UserStore) GetByID(_ context.Context, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	stored := *user
	return &stored, nil
}

// Exists reports whether a user with the given ID exists
func (s *UserStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}
