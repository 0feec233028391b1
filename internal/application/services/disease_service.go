package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
)

// DiseaseService handles business logic for disease documents
type DiseaseService struct {
	repo       repositories.DiseaseRepository
	searchRepo repositories.DiseaseSearchRepository
}

// NewDiseaseService creates a new disease service. searchRepo may be nil;
// listings then always come from the primary repository.
func NewDiseaseService(repo repositories.DiseaseRepository, searchRepo repositories.DiseaseSearchRepository) *DiseaseService {
	return &DiseaseService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// GetByID retrieves a disease by its durable id
func (s *DiseaseService) GetByID(ctx context.Context, id string) (*entities.Disease, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves diseases. Free-text queries go through the search index
// when one is configured, falling back to the database when the index is
// unavailable.
func (s *DiseaseService) List(ctx context.Context, filter repositories.DiseaseFilter) ([]*entities.Disease, error) {
	if s.searchRepo != nil && filter.Query != "" {
		diseases, err := s.searchRepo.Search(ctx, filter)
		if err == nil {
			return diseases, nil
		}
		log.Warn().Err(err).Msg("Disease search failed, falling back to database")
	}
	return s.repo.List(ctx, filter)
}

// Reindex rebuilds the search index from the primary repository. It pages
// through all diseases and upserts each into the index.
func (s *DiseaseService) Reindex(ctx context.Context) (int, error) {
	if s.searchRepo == nil {
		return 0, nil
	}

	if err := s.searchRepo.InitSchema(ctx); err != nil {
		return 0, err
	}

	const pageSize = 100
	indexed := 0
	for offset := 0; ; offset += pageSize {
		diseases, err := s.repo.List(ctx, repositories.DiseaseFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return indexed, err
		}
		if len(diseases) == 0 {
			break
		}

		for _, disease := range diseases {
			if err := s.searchRepo.Index(ctx, disease); err != nil {
				log.Warn().Err(err).Str("disease_id", disease.ID).Msg("Failed to index disease")
				continue
			}
			indexed++
		}

		if len(diseases) < pageSize {
			break
		}
	}

	return indexed, nil
}
