package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/soundseekers/discovery-backend/internal/domain/entities"
	"github.com/soundseekers/discovery-backend/internal/domain/repositories"
	"github.com/soundseekers/discovery-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

const localitiesTable = "localities"

// LocalityAdapter implements LocalityRepository against PostgreSQL
type LocalityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLocalityAdapter creates a new locality adapter
func NewLocalityAdapter(client *postgres.Client) *LocalityAdapter {
	return &LocalityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.LocalityRepository = (*LocalityAdapter)(nil)

// ListAll retrieves all known localities ordered by name
func (a *LocalityAdapter) ListAll(ctx context.Context) ([]*entities.Locality, error) {
	query, args, err := a.db.Select("id", "name", "province", "latitude", "longitude").
		From(localitiesTable).
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query localities", err)
	}
	defer rows.Close()

	localities := []*entities.Locality{}
	for rows.Next() {
		locality := &entities.Locality{}
		err := rows.Scan(
			&locality.ID,
			&locality.Name,
			&locality.Province,
			&locality.Centroid.Latitude,
			&locality.Centroid.Longitude,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan locality", err)
		}
		localities = append(localities, locality)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating localities", err)
	}
	return localities, nil
}

// GetByID retrieves a locality by ID
func (a *LocalityAdapter) GetByID(ctx context.Context, id string) (*entities.Locality, error) {
	query, args, err := a.db.Select("id", "name", "province", "latitude", "longitude").
		From(localitiesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	locality := &entities.Locality{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&locality.ID,
		&locality.Name,
		&locality.Province,
		&locality.Centroid.Latitude,
		&locality.Centroid.Longitude,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("locality with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get locality", err)
	}
	return locality, nil
}
