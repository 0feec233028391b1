package services

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
)

// PlantService handles business logic for plant documents
type PlantService struct {
	repo repositories.PlantRepository
}

// NewPlantService creates a new plant service
func NewPlantService(repo repositories.PlantRepository) *PlantService {
	return &PlantService{repo: repo}
}

// GetByID retrieves a plant by ID
func (s *PlantService) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName retrieves a plant by its display name
func (s *PlantService) GetByName(ctx context.Context, name string) (*entities.Plant, error) {
	return s.repo.GetByName(ctx, name)
}

// List retrieves plants
func (s *PlantService) List(ctx context.Context, filter repositories.PlantFilter) ([]*entities.Plant, error) {
	return s.repo.List(ctx, filter)
}
