package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

const usersTable = "users"

// UserAdapter implements UserRepository against PostgreSQL
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) *UserAdapter {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.UserRepository = (*UserAdapter)(nil)

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert(usersTable).Rows(goqu.Record{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query, args, err := a.db.Select("id", "name", "email", "created_at").
		From(usersTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// Exists reports whether a user with the given ID exists
func (a *UserAdapter) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From(usersTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check user existence", err)
	}
	return count > 0, nil
}
