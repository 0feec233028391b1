package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/plantio/backend/pkg/errors"
)

const maxPageSize = 100

// PlantAdapter implements plant document access in Postgres. The nested
// disease records live in a JSONB column, mirroring the document shape the
// content team authors.
type PlantAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.PlantRepository = (*PlantAdapter)(nil)

// NewPlantAdapter creates a new plant adapter.
func NewPlantAdapter(client *postgres.Client) *PlantAdapter {
	return &PlantAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID returns one plant document or a NOT_FOUND error.
func (a *PlantAdapter) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	query, args, err := a.db.From("plants").
		Select("id", "plant_name", "scientific_name", "description", "image_url", "diseases").
		Where(goqu.I("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build plant query", err)
	}

	return a.scanPlantRow(a.client.DB().QueryRowContext(ctx, query, args...))
}

// GetByName returns the plant document whose display name matches,
// case-insensitively. This is the enrichment cross-reference lookup.
func (a *PlantAdapter) GetByName(ctx context.Context, name string) (*entities.Plant, error) {
	if name == "" {
		return nil, apperrors.NewNotFoundError("plant not found")
	}

	query, args, err := a.db.From("plants").
		Select("id", "plant_name", "scientific_name", "description", "image_url", "diseases").
		Where(goqu.I("plant_name").ILike(name)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build plant query", err)
	}

	return a.scanPlantRow(a.client.DB().QueryRowContext(ctx, query, args...))
}

// List returns plant documents, optionally filtered by a name substring.
func (a *PlantAdapter) List(ctx context.Context, filter repositories.PlantFilter) ([]*entities.Plant, error) {
	ds := a.db.From("plants").
		Select("id", "plant_name", "scientific_name", "description", "image_url", "diseases").
		Order(goqu.I("plant_name").Asc())

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.I("plant_name").ILike(pattern),
			goqu.I("scientific_name").ILike(pattern),
		))
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	ds = ds.Limit(uint(limit))
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build plant list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list plants", err)
	}
	defer rows.Close()

	var plants []*entities.Plant
	for rows.Next() {
		plant, err := a.scanPlantRow(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate plants", err)
	}

	return plants, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *PlantAdapter) scanPlantRow(row rowScanner) (*entities.Plant, error) {
	var (
		plant          entities.Plant
		scientificName sql.NullString
		description    sql.NullString
		imageURL       sql.NullString
		diseasesJSON   []byte
	)

	err := row.Scan(&plant.ID, &plant.PlantName, &scientificName, &description, &imageURL, &diseasesJSON)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("plant not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan plant", err)
	}

	plant.ScientificName = scientificName.String
	plant.Description = description.String
	plant.ImageURL = imageURL.String

	if len(diseasesJSON) > 0 {
		if err := json.Unmarshal(diseasesJSON, &plant.Diseases); err != nil {
			return nil, apperrors.NewInternalError(
				fmt.Sprintf("malformed diseases document for plant %s", plant.ID), err)
		}
	}

	return &plant, nil
}
