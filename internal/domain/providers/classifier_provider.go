package providers

import (
	"context"

	"github.com/plantio/backend/internal/domain/entities"
)

// ClassifierProvider is the external image classification capability.
//
// PredictTopK must return candidates sorted descending by confidence; the
// decision policy selects the first candidate above threshold and relies on
// this ordering rather than re-sorting. Implementations must return an error
// for bytes that do not decode as an image; the classifier is the only
// component trusted to judge image validity.
type ClassifierProvider interface {
	PredictTopK(ctx context.Context, image []byte, topK int) ([]entities.RawCandidate, error)

	// Backend names the active inference backend for health reporting.
	Backend() string
}
