package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/repositories"
)

// Mocks shared across the service tests.

type MockPlantRepository struct {
	mock.Mock
}

func (m *MockPlantRepository) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Plant), args.Error(1)
}

func (m *MockPlantRepository) GetByName(ctx context.Context, name string) (*entities.Plant, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Plant), args.Error(1)
}

func (m *MockPlantRepository) List(ctx context.Context, filter repositories.PlantFilter) ([]*entities.Plant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Plant), args.Error(1)
}

type MockDiagnosisRepository struct {
	mock.Mock
}

func (m *MockDiagnosisRepository) Insert(ctx context.Context, diagnosis *entities.Diagnosis) error {
	args := m.Called(ctx, diagnosis)
	if args.Error(0) == nil && diagnosis.ID == "" {
		diagnosis.ID = "diag-1"
	}
	return args.Error(0)
}

func (m *MockDiagnosisRepository) GetByID(ctx context.Context, id string) (*entities.Diagnosis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Diagnosis), args.Error(1)
}

type MockClassifierProvider struct {
	mock.Mock
}

func (m *MockClassifierProvider) PredictTopK(ctx context.Context, image []byte, topK int) ([]entities.RawCandidate, error) {
	args := m.Called(ctx, image, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawCandidate), args.Error(1)
}

func (m *MockClassifierProvider) Backend() string {
	return "mock"
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Save(filename string, content []byte) (string, string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.String(1), args.Error(2)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DiagnosisEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DiagnosisEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.DiagnosisEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return nil
}

type MockDiseaseRepository struct {
	mock.Mock
}

func (m *MockDiseaseRepository) GetByID(ctx context.Context, id string) (*entities.Disease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Disease), args.Error(1)
}

func (m *MockDiseaseRepository) List(ctx context.Context, filter repositories.DiseaseFilter) ([]*entities.Disease, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Disease), args.Error(1)
}

type MockDiseaseSearchRepository struct {
	mock.Mock
}

func (m *MockDiseaseSearchRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDiseaseSearchRepository) Index(ctx context.Context, disease *entities.Disease) error {
	args := m.Called(ctx, disease)
	return args.Error(0)
}

func (m *MockDiseaseSearchRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDiseaseSearchRepository) Search(ctx context.Context, filter repositories.DiseaseFilter) ([]*entities.Disease, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Disease), args.Error(1)
}
