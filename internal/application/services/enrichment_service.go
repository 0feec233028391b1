package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/pkg/labels"
)

// EnrichmentService turns raw ranked classifier candidates into enriched
// candidates and selects the decided disease in the same pass.
type EnrichmentService struct {
	plantRepo repositories.PlantRepository
}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService(plantRepo repositories.PlantRepository) *EnrichmentService {
	return &EnrichmentService{plantRepo: plantRepo}
}

// Enrich processes candidates in their given ranked order. The output list
// always has the same length and order as the input. The decided disease id
// is the durable id of the first candidate whose confidence meets the
// threshold; candidates never overwrite an earlier decision.
//
// Ranking by descending confidence is a classifier precondition, not
// something re-derived here.
func (s *EnrichmentService) Enrich(ctx context.Context, candidates []entities.RawCandidate, threshold float64) ([]entities.EnrichedCandidate, string, error) {
	enriched := make([]entities.EnrichedCandidate, 0, len(candidates))
	decidedDiseaseID := ""

	for i, candidate := range candidates {
		result := s.enrichOne(ctx, i, candidate)
		enriched = append(enriched, result)

		if decidedDiseaseID == "" && result.Confidence >= threshold && result.DiseaseID != "" {
			decidedDiseaseID = result.DiseaseID
		}
	}

	return enriched, decidedDiseaseID, nil
}

// enrichOne processes a single candidate. A panic while handling one
// candidate degrades that candidate to its raw references instead of
// aborting the batch.
func (s *EnrichmentService) enrichOne(ctx context.Context, index int, candidate entities.RawCandidate) (result entities.EnrichedCandidate) {
	plantRef := labels.FirstNonEmpty(candidate.PlantName, candidate.PlantLabel, candidate.PlantID)
	diseaseRef := labels.FirstNonEmpty(candidate.DiseaseName, candidate.DiseaseLabel, candidate.DiseaseID)

	result = entities.EnrichedCandidate{
		PlantID:     candidate.PlantID,
		PlantName:   plantRef,
		DiseaseID:   labels.FirstNonEmpty(candidate.DiseaseID, candidate.DiseaseLabel, diseaseRef),
		DiseaseName: diseaseRef,
		Confidence:  candidate.Confidence,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("candidate", index).Interface("panic", r).
				Msg("Candidate enrichment panicked, keeping raw values")
		}
	}()

	plantName, diseaseName, _ := labels.Normalize(plantRef, diseaseRef)
	if plantName != "" {
		result.PlantName = plantName
	}
	if diseaseName != "" {
		result.DiseaseName = diseaseName
	}

	if plantRef == "" {
		return result
	}

	plant := s.lookupPlant(ctx, plantName, plantRef)
	if plant == nil {
		return result
	}

	result.PlantID = plant.ID
	if result.PlantName == "" {
		result.PlantName = plant.PlantName
	}

	// Content-team-authored names in the plant document win over the
	// static label tables.
	for _, disease := range plant.Diseases {
		if disease.DiseaseName == diseaseRef || disease.DiseaseName == result.DiseaseName {
			result.DiseaseName = disease.DiseaseName
			break
		}
	}

	return result
}

// lookupPlant tries the normalized name first and the raw reference second.
// Any failure counts as "no document": a bad lookup must never fail the
// candidate, let alone the batch.
func (s *EnrichmentService) lookupPlant(ctx context.Context, normalizedName, rawRef string) *entities.Plant {
	if normalizedName != "" {
		plant, err := s.plantRepo.GetByName(ctx, normalizedName)
		if err == nil && plant != nil {
			return plant
		}
	}

	if rawRef != "" && rawRef != normalizedName {
		plant, err := s.plantRepo.GetByName(ctx, rawRef)
		if err == nil && plant != nil {
			return plant
		}
	}

	return nil
}

// Decide restates the decision rule over an already-enriched list: the
// durable disease id of the first candidate meeting the threshold, or empty
// when none qualifies.
func Decide(candidates []entities.EnrichedCandidate, threshold float64) string {
	for _, candidate := range candidates {
		if candidate.Confidence >= threshold && candidate.DiseaseID != "" {
			return candidate.DiseaseID
		}
	}
	return ""
}

// EffectiveThreshold clamps a request threshold to the operator floor. The
// caller can tighten the decision, never loosen it.
func EffectiveThreshold(requested, floor float64) float64 {
	if requested > floor {
		return requested
	}
	return floor
}
