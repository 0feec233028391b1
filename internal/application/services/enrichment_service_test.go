package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/entities"
	apperrors "github.com/plantio/backend/pkg/errors"
)

func newEnricher(plantRepo *MockPlantRepository) *services.EnrichmentService {
	return services.NewEnrichmentService(plantRepo)
}

func TestEnrichPreservesOrderAndLength(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.9},
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.5},
		{PlantLabel: "grape", DiseaseLabel: "healthy", Confidence: 0.2},
	}

	enriched, _, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)

	require.Len(t, enriched, len(candidates))
	assert.Equal(t, 0.9, enriched[0].Confidence)
	assert.Equal(t, 0.5, enriched[1].Confidence)
	assert.Equal(t, 0.2, enriched[2].Confidence)
	assert.Equal(t, "Яблуня", enriched[0].PlantName)
	assert.Equal(t, "Чорна гниль", enriched[0].DiseaseName)
}

func TestEnrichDiseaseIDStaysMachineLabel(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.9},
		{PlantLabel: "apple", DiseaseID: "black_rot", DiseaseName: "Чорна гниль", Confidence: 0.8},
	}

	enriched, decided, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)

	// Localized display names never leak into the durable id.
	assert.Equal(t, "late_blight", enriched[0].DiseaseID)
	assert.Equal(t, "Фітофтороз томату", enriched[0].DiseaseName)
	assert.Equal(t, "black_rot", enriched[1].DiseaseID)
	assert.Equal(t, "late_blight", decided)
}

func TestEnrichDecidesFirstAboveThreshold(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.94},
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.10},
	}

	_, decided, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)
	assert.Equal(t, "black_rot", decided)
}

func TestEnrichAllBelowThreshold(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.22},
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.12},
	}

	enriched, decided, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)
	assert.Empty(t, decided)
	assert.Len(t, enriched, 2)
}

func TestEnrichDocumentNamesTakePrecedence(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, "Яблуня").Return(&entities.Plant{
		ID:        "plant-apple",
		PlantName: "Яблуня",
		Diseases: []entities.PlantDisease{
			{DiseaseName: "Чорна гниль", Description: "authored copy"},
		},
	}, nil)
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.9},
	}

	enriched, _, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)

	assert.Equal(t, "plant-apple", enriched[0].PlantID)
	assert.Equal(t, "Чорна гниль", enriched[0].DiseaseName)
	assert.Equal(t, "black_rot", enriched[0].DiseaseID)
}

func TestEnrichLookupFallsBackToRawName(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	plantRepo.On("GetByName", mock.Anything, "Яблуня").Return(nil, apperrors.NewNotFoundError("plant not found"))
	plantRepo.On("GetByName", mock.Anything, "apple").Return(&entities.Plant{
		ID:        "plant-raw",
		PlantName: "apple",
	}, nil)
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.9},
	}

	enriched, _, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)
	assert.Equal(t, "plant-raw", enriched[0].PlantID)
	plantRepo.AssertExpectations(t)
}

func TestEnrichLookupFailureIsolatedPerCandidate(t *testing.T) {
	plantRepo := new(MockPlantRepository)
	// First candidate's lookups blow up with a transport error.
	plantRepo.On("GetByName", mock.Anything, "Виноград").Return(nil, errors.New("connection refused"))
	plantRepo.On("GetByName", mock.Anything, "grape").Return(nil, errors.New("connection refused"))
	// Second candidate still resolves.
	plantRepo.On("GetByName", mock.Anything, "Яблуня").Return(&entities.Plant{
		ID:        "plant-apple",
		PlantName: "Яблуня",
	}, nil)
	enricher := newEnricher(plantRepo)

	candidates := []entities.RawCandidate{
		{PlantLabel: "grape", DiseaseLabel: "black_rot", Confidence: 0.9},
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.8},
	}

	enriched, decided, err := enricher.Enrich(context.Background(), candidates, 0.6)
	require.NoError(t, err)

	require.Len(t, enriched, 2)
	assert.Empty(t, enriched[0].PlantID)
	assert.Equal(t, "Виноград", enriched[0].PlantName)
	assert.Equal(t, "plant-apple", enriched[1].PlantID)
	assert.Equal(t, "black_rot", decided)
}

func TestEnrichEmptyCandidateList(t *testing.T) {
	enricher := newEnricher(new(MockPlantRepository))

	enriched, decided, err := enricher.Enrich(context.Background(), nil, 0.6)
	require.NoError(t, err)
	assert.Empty(t, enriched)
	assert.Empty(t, decided)
}

func TestDecide(t *testing.T) {
	candidates := []entities.EnrichedCandidate{
		{DiseaseID: "a", Confidence: 0.5},
		{DiseaseID: "b", Confidence: 0.7},
		{DiseaseID: "c", Confidence: 0.9},
	}

	assert.Equal(t, "a", services.Decide(candidates, 0.4))
	assert.Equal(t, "b", services.Decide(candidates, 0.6))
	assert.Equal(t, "c", services.Decide(candidates, 0.8))
	assert.Empty(t, services.Decide(candidates, 0.95))

	// Candidates without a durable id never decide.
	noID := []entities.EnrichedCandidate{
		{DiseaseID: "", Confidence: 0.9},
		{DiseaseID: "x", Confidence: 0.8},
	}
	assert.Equal(t, "x", services.Decide(noID, 0.6))
}

func TestEffectiveThreshold(t *testing.T) {
	assert.Equal(t, 0.8, services.EffectiveThreshold(0.8, 0.6))
	assert.Equal(t, 0.6, services.EffectiveThreshold(0.3, 0.6))
	assert.Equal(t, 0.6, services.EffectiveThreshold(0, 0.6))
}
