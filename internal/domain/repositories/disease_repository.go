package repositories

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// DiseaseFilter narrows disease listings.
type DiseaseFilter struct {
	Query   string
	PlantID string
	// Sort is a comma-separated field list; a leading "-" means descending,
	// e.g. "-popularity,name".
	Sort   string
	Limit  int
	Offset int
}

// DiseaseRepository provides access to disease documents by durable id.
type DiseaseRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Disease, error)
	List(ctx context.Context, filter DiseaseFilter) ([]*entities.Disease, error)
}
