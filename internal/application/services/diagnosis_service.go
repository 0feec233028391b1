package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/providers"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/observability"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// DiagnosisEventsChannel is the bus channel diagnosis events are published on.
const DiagnosisEventsChannel = "diagnosis.events"

// DiagnoseInput carries one upload through the diagnosis workflow.
type DiagnoseInput struct {
	Filename  string
	Image     []byte
	TopK      int
	Threshold float64
}

// DiagnoseOutput is the workflow result. An empty DecidedDiseaseID means no
// candidate met the threshold; the candidate list is still complete.
type DiagnoseOutput struct {
	DiagnosisID      string                       `json:"diagnosisId"`
	DecidedDiseaseID string                       `json:"decidedDiseaseId,omitempty"`
	Candidates       []entities.EnrichedCandidate `json:"candidates"`
	InferenceMs      int64                        `json:"inferenceMs"`
}

// DiagnosisService runs the diagnosis workflow:
// validate upload, store blob, classify, enrich and decide, persist, respond.
// Every stage failure is terminal for the request; nothing is retried.
type DiagnosisService struct {
	classifier    providers.ClassifierProvider
	blobStore     providers.BlobStore
	enricher      *EnrichmentService
	diagnosisRepo repositories.DiagnosisRepository
	eventBus      providers.EventBus
	metrics       *observability.Metrics
	minConfidence float64
	defaultTopK   int
}

// NewDiagnosisService creates a new diagnosis service. eventBus and metrics
// may be nil; both are best-effort side channels.
func NewDiagnosisService(
	classifier providers.ClassifierProvider,
	blobStore providers.BlobStore,
	enricher *EnrichmentService,
	diagnosisRepo repositories.DiagnosisRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
	minConfidence float64,
	defaultTopK int,
) *DiagnosisService {
	return &DiagnosisService{
		classifier:    classifier,
		blobStore:     blobStore,
		enricher:      enricher,
		diagnosisRepo: diagnosisRepo,
		eventBus:      eventBus,
		metrics:       metrics,
		minConfidence: minConfidence,
		defaultTopK:   defaultTopK,
	}
}

// Diagnose processes one uploaded image end to end. The diagnosis record is
// persisted before the decision outcome is inspected, so low-confidence
// requests leave an audit record too.
func (s *DiagnosisService) Diagnose(ctx context.Context, input DiagnoseInput) (*DiagnoseOutput, error) {
	ctx, span := observability.StartSpan(ctx, "DiagnosisService.Diagnose")
	defer span.End()

	if len(input.Image) == 0 {
		return nil, apperrors.NewEmptyInputError("uploaded image is empty")
	}

	path, imageHash, err := s.blobStore.Save(input.Filename, input.Image)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to store uploaded image", err)
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}
	threshold := EffectiveThreshold(input.Threshold, s.minConfidence)

	inferenceStart := time.Now()
	rawCandidates, err := s.classifier.PredictTopK(ctx, input.Image, topK)
	inferenceMs := time.Since(inferenceStart).Milliseconds()
	if err != nil {
		observability.RecordError(span, err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeInvalidImage {
			return nil, appErr
		}
		return nil, apperrors.NewInvalidImageError("classification failed", err)
	}
	if s.metrics != nil {
		observability.RecordInferenceMetric(ctx, s.metrics, s.classifier.Backend(), time.Since(inferenceStart))
	}

	enriched, decidedDiseaseID, err := s.enricher.Enrich(ctx, rawCandidates, threshold)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewEnrichmentError("candidate enrichment failed", err)
	}

	diagnosis := &entities.Diagnosis{
		Status:    entities.DiagnosisStatusDone,
		CreatedAt: time.Now().UTC(),
		Request: entities.DiagnosisRequest{
			ImageSHA256: imageHash,
			Filename:    input.Filename,
		},
		Result: &entities.DiagnosisResult{
			PlantID:          primaryPlantID(enriched),
			Candidates:       enriched,
			DecidedDiseaseID: decidedDiseaseID,
		},
		InferenceMs: inferenceMs,
	}

	if err := s.diagnosisRepo.Insert(ctx, diagnosis); err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewPersistenceError("failed to persist diagnosis", err)
	}

	observability.SetSpanAttributes(span,
		attribute.String("diagnosis.id", diagnosis.ID),
		attribute.String("diagnosis.decided_disease_id", decidedDiseaseID),
		attribute.Int64("diagnosis.inference_ms", inferenceMs),
	)

	outcome := "decided"
	if decidedDiseaseID == "" {
		outcome = "low_confidence"
	}
	if s.metrics != nil {
		observability.RecordDiagnosisMetric(ctx, s.metrics, outcome)
	}

	s.publishCreated(ctx, diagnosis, decidedDiseaseID, enriched)

	log.Info().
		Str("diagnosis_id", diagnosis.ID).
		Str("outcome", outcome).
		Str("image_sha256", imageHash).
		Str("path", path).
		Int64("inference_ms", inferenceMs).
		Msg("Diagnosis completed")

	return &DiagnoseOutput{
		DiagnosisID:      diagnosis.ID,
		DecidedDiseaseID: decidedDiseaseID,
		Candidates:       enriched,
		InferenceMs:      inferenceMs,
	}, nil
}

// GetByID returns a stored diagnosis record.
func (s *DiagnosisService) GetByID(ctx context.Context, id string) (*entities.Diagnosis, error) {
	return s.diagnosisRepo.GetByID(ctx, id)
}

// Backend names the active inference backend for health reporting.
func (s *DiagnosisService) Backend() string {
	return s.classifier.Backend()
}

// publishCreated emits a diagnosis.created event. Publishing is best-effort:
// a failed publish is logged and the request still succeeds.
func (s *DiagnosisService) publishCreated(ctx context.Context, diagnosis *entities.Diagnosis, decidedDiseaseID string, enriched []entities.EnrichedCandidate) {
	if s.eventBus == nil {
		return
	}

	confidence := 0.0
	for _, candidate := range enriched {
		if decidedDiseaseID != "" && candidate.DiseaseID == decidedDiseaseID {
			confidence = candidate.Confidence
			break
		}
	}

	event := &entities.DiagnosisEvent{
		ID:               diagnosis.ID,
		Type:             entities.DiagnosisEventCreated,
		DiagnosisID:      diagnosis.ID,
		DecidedDiseaseID: decidedDiseaseID,
		Confidence:       confidence,
		CreatedAt:        diagnosis.CreatedAt,
	}

	if err := s.eventBus.Publish(ctx, DiagnosisEventsChannel, event); err != nil {
		log.Warn().Err(err).Str("diagnosis_id", diagnosis.ID).Msg("Failed to publish diagnosis event")
	}
}

// primaryPlantID is the plant id of the top-ranked candidate that has one.
func primaryPlantID(candidates []entities.EnrichedCandidate) string {
	for _, candidate := range candidates {
		if candidate.PlantID != "" {
			return candidate.PlantID
		}
	}
	return ""
}
