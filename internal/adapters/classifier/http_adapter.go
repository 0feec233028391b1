package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/providers"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// HTTPAdapter calls an external inference service over HTTP. The service
// receives the raw image as a multipart upload and answers with a ranked
// prediction list.
type HTTPAdapter struct {
	baseURL    string
	httpClient *http.Client
	classMap   *ClassMap
}

var _ providers.ClassifierProvider = (*HTTPAdapter)(nil)

// NewHTTPAdapter creates a classifier backed by an external inference service.
func NewHTTPAdapter(baseURL string, timeout time.Duration, classMap *ClassMap) *HTTPAdapter {
	return &HTTPAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		classMap: classMap,
	}
}

// predictionPayload mirrors the inference service response. Older service
// builds emit bare label fields while newer ones emit only class_index, so
// every field is optional.
type predictionPayload struct {
	Predictions []entities.RawCandidate `json:"predictions"`
	InferenceMs int64                   `json:"inference_ms,omitempty"`
	Backend     string                  `json:"backend,omitempty"`
}

// PredictTopK sends the image to the inference service and normalizes the
// response through the class map.
func (a *HTTPAdapter) PredictTopK(ctx context.Context, image []byte, topK int) ([]entities.RawCandidate, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "upload.jpg")
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build inference request", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, apperrors.NewExternalError("failed to build inference request", err)
	}
	if err := writer.WriteField("top_k", strconv.Itoa(topK)); err != nil {
		return nil, apperrors.NewExternalError("failed to build inference request", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewExternalError("failed to build inference request", err)
	}

	endpoint := fmt.Sprintf("%s/predict", a.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build inference request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("inference service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewInvalidImageError(
			fmt.Sprintf("inference service rejected the image: %s", string(detail)), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("inference service returned status %d", resp.StatusCode), nil)
	}

	var payload predictionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode inference response", err)
	}

	candidates := make([]entities.RawCandidate, 0, len(payload.Predictions))
	for _, candidate := range payload.Predictions {
		candidates = append(candidates, a.classMap.Annotate(candidate))
	}

	// The ranking contract holds even when the service misbehaves.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// Backend names the active inference backend.
func (a *HTTPAdapter) Backend() string {
	return "http"
}
