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

type diagnosisFixture struct {
	classifier    *MockClassifierProvider
	blobStore     *MockBlobStore
	plantRepo     *MockPlantRepository
	diagnosisRepo *MockDiagnosisRepository
	eventBus      *MockEventBus
	service       *services.DiagnosisService
}

func newDiagnosisFixture() *diagnosisFixture {
	f := &diagnosisFixture{
		classifier:    new(MockClassifierProvider),
		blobStore:     new(MockBlobStore),
		plantRepo:     new(MockPlantRepository),
		diagnosisRepo: new(MockDiagnosisRepository),
		eventBus:      new(MockEventBus),
	}
	enricher := services.NewEnrichmentService(f.plantRepo)
	f.service = services.NewDiagnosisService(
		f.classifier, f.blobStore, enricher, f.diagnosisRepo, f.eventBus, nil, 0.6, 3)
	return f
}

func TestDiagnoseEmptyUpload(t *testing.T) {
	f := newDiagnosisFixture()

	_, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{Filename: "leaf.jpg"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeEmptyInput, appErr.Type)

	// No classifier invocation happens for an empty upload.
	f.classifier.AssertNotCalled(t, "PredictTopK", mock.Anything, mock.Anything, mock.Anything)
	f.blobStore.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDiagnoseSuccess(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("image-bytes")

	f.blobStore.On("Save", "leaf.jpg", image).Return("/uploads/ab/abcd.jpg", "abcd", nil)
	f.classifier.On("PredictTopK", mock.Anything, image, 3).Return([]entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.94},
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.10},
	}, nil)
	f.plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	f.diagnosisRepo.On("Insert", mock.Anything, mock.MatchedBy(func(d *entities.Diagnosis) bool {
		return d.Status == entities.DiagnosisStatusDone &&
			d.Request.ImageSHA256 == "abcd" &&
			d.Result != nil &&
			d.Result.DecidedDiseaseID == "black_rot"
	})).Return(nil)
	f.eventBus.On("Publish", mock.Anything, services.DiagnosisEventsChannel, mock.MatchedBy(func(e *entities.DiagnosisEvent) bool {
		return e.Type == entities.DiagnosisEventCreated && e.DecidedDiseaseID == "black_rot" && e.Confidence == 0.94
	})).Return(nil)

	output, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename: "leaf.jpg",
		Image:    image,
	})
	require.NoError(t, err)

	assert.Equal(t, "diag-1", output.DiagnosisID)
	assert.Equal(t, "black_rot", output.DecidedDiseaseID)
	assert.Len(t, output.Candidates, 2)
	f.diagnosisRepo.AssertExpectations(t)
	f.eventBus.AssertExpectations(t)
}

func TestDiagnoseLowConfidencePersistsRecord(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("image-bytes")

	f.blobStore.On("Save", "leaf.jpg", image).Return("/uploads/ab/abcd.jpg", "abcd", nil)
	f.classifier.On("PredictTopK", mock.Anything, image, 3).Return([]entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.22},
		{PlantLabel: "tomato", DiseaseLabel: "late_blight", Confidence: 0.12},
	}, nil)
	f.plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	f.diagnosisRepo.On("Insert", mock.Anything, mock.MatchedBy(func(d *entities.Diagnosis) bool {
		return d.Result != nil && d.Result.DecidedDiseaseID == "" && len(d.Result.Candidates) == 2
	})).Return(nil)
	f.eventBus.On("Publish", mock.Anything, services.DiagnosisEventsChannel, mock.Anything).Return(nil)

	output, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename: "leaf.jpg",
		Image:    image,
	})
	require.NoError(t, err)

	assert.Empty(t, output.DecidedDiseaseID)
	assert.Len(t, output.Candidates, 2)
	assert.Equal(t, "diag-1", output.DiagnosisID)
	f.diagnosisRepo.AssertExpectations(t)
}

func TestDiagnoseThresholdFloor(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("image-bytes")

	f.blobStore.On("Save", "leaf.jpg", image).Return("/uploads/ab/abcd.jpg", "abcd", nil)
	f.classifier.On("PredictTopK", mock.Anything, image, 3).Return([]entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.5},
	}, nil)
	f.plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	f.diagnosisRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Requested threshold 0.3 is raised to the 0.6 floor, so 0.5 does not decide.
	output, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename:  "leaf.jpg",
		Image:     image,
		Threshold: 0.3,
	})
	require.NoError(t, err)
	assert.Empty(t, output.DecidedDiseaseID)
}

func TestDiagnoseClassifierFailure(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("not an image")

	f.blobStore.On("Save", "junk.bin", image).Return("/uploads/ju/junk.bin", "hash", nil)
	f.classifier.On("PredictTopK", mock.Anything, image, 3).Return(nil, errors.New("cannot decode"))

	_, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename: "junk.bin",
		Image:    image,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidImage, appErr.Type)
	f.diagnosisRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDiagnosePersistenceFailure(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("image-bytes")

	f.blobStore.On("Save", "leaf.jpg", image).Return("/uploads/ab/abcd.jpg", "abcd", nil)
	f.classifier.On("PredictTopK", mock.Anything, image, 3).Return([]entities.RawCandidate{
		{PlantLabel: "apple", DiseaseLabel: "black_rot", Confidence: 0.94},
	}, nil)
	f.plantRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("plant not found"))
	f.diagnosisRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("database down"))

	_, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename: "leaf.jpg",
		Image:    image,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypePersistence, appErr.Type)
	f.eventBus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiagnoseBlobStoreFailure(t *testing.T) {
	f := newDiagnosisFixture()
	image := []byte("image-bytes")

	f.blobStore.On("Save", "leaf.jpg", image).Return("", "", errors.New("disk full"))

	_, err := f.service.Diagnose(context.Background(), services.DiagnoseInput{
		Filename: "leaf.jpg",
		Image:    image,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypePersistence, appErr.Type)
	f.classifier.AssertNotCalled(t, "PredictTopK", mock.Anything, mock.Anything, mock.Anything)
}
