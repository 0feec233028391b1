package repositories

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// PlantFilter narrows plant listings.
type PlantFilter struct {
	Query  string
	Limit  int
	Offset int
}

// PlantRepository is the plant document lookup service. GetByName is the
// enrichment cross-reference: implementations return a NOT_FOUND AppError
// when no document matches, and callers treat any error as "no document".
type PlantRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Plant, error)
	GetByName(ctx context.Context, name string) (*entities.Plant, error)
	List(ctx context.Context, filter PlantFilter) ([]*entities.Plant, error)
}
