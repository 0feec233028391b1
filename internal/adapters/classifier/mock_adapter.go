package classifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/providers"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// mockConfidences is the fixed descending ranking the mock emits. Candidates
// past the fifth position get the tail value.
var mockConfidences = []float64{0.94, 0.88, 0.69, 0.55, 0.42}

const mockConfidenceTail = 0.4

// MockAdapter is a deterministic classifier for development and tests. The
// same image always yields the same candidates: the image hash picks a
// starting class and topK consecutive classes follow in map order.
type MockAdapter struct {
	classMap *ClassMap
}

var _ providers.ClassifierProvider = (*MockAdapter)(nil)

// NewMockAdapter creates a deterministic mock classifier.
func NewMockAdapter(classMap *ClassMap) *MockAdapter {
	return &MockAdapter{classMap: classMap}
}

// PredictTopK validates the image bytes and fabricates a ranked candidate
// list from the class map.
func (a *MockAdapter) PredictTopK(ctx context.Context, img []byte, topK int) ([]entities.RawCandidate, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return nil, apperrors.NewInvalidImageError("uploaded bytes are not a decodable image", err)
	}

	total := a.classMap.Len()
	if total == 0 {
		return []entities.RawCandidate{}, nil
	}
	if topK > total {
		topK = total
	}

	hash := sha256.Sum256(img)
	start := int(hash[0]) % total

	candidates := make([]entities.RawCandidate, 0, topK)
	for i := 0; i < topK; i++ {
		idx, entry := a.classMap.At((start + i) % total)
		confidence := mockConfidenceTail
		if i < len(mockConfidences) {
			confidence = mockConfidences[i]
		}

		classIndex := idx
		candidates = append(candidates, entities.RawCandidate{
			ClassIndex:   &classIndex,
			PlantLabel:   entry.PlantLabel,
			PlantName:    entry.PlantName,
			DiseaseLabel: entry.DiseaseLabel,
			DiseaseName:  entry.DiseaseName,
			PlantID:      entry.PlantID,
			DiseaseID:    entry.DiseaseID,
			Confidence:   confidence,
		})
	}
	return candidates, nil
}

// Backend names the active inference backend.
func (a *MockAdapter) Backend() string {
	return "mock"
}
