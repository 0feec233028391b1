package repositories

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// DiseaseSearchRepository is the full-text index over disease documents.
// It is optional infrastructure: when absent, listings fall back to the
// primary DiseaseRepository.
type DiseaseSearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, disease *entities.Disease) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter DiseaseFilter) ([]*entities.Disease, error)
}
