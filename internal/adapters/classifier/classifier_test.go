package classifier

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantio/backend/internal/domain/entities"
	apperrors "github.com/plantio/backend/pkg/errors"
)

func rawCandidate(idx int, plantLabel string, confidence float64) entities.RawCandidate {
	return entities.RawCandidate{
		ClassIndex: &idx,
		PlantLabel: plantLabel,
		Confidence: confidence,
	}
}

const testClassMapJSON = `{
	"0": {"plant_label": "apple", "plant_name": "Яблуня", "disease_label": "black_rot", "disease_name": "Чорна гниль", "disease_id": "black_rot"},
	"1": {"plant_label": "tomato", "plant_name": "Помідор", "disease_label": "late_blight", "disease_id": "late_blight"},
	"2": {"plant_label": "grape", "plant_name": "Виноград", "disease_label": "healthy", "disease_name": "Здорова рослина", "disease_id": "healthy"},
	"bogus": {"plant_label": "ignored"}
}`

func writeClassMap(t *testing.T, content string) *ClassMap {
	t.Helper()
	path := filepath.Join(t.TempDir(), "class_map.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	classMap, err := LoadClassMap(path)
	require.NoError(t, err)
	return classMap
}

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 40, G: 180, B: 60, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadClassMap(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)

	assert.Equal(t, 3, classMap.Len())

	entry, ok := classMap.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, "apple", entry.PlantLabel)
	assert.Equal(t, "Чорна гниль", entry.DiseaseName)

	_, ok = classMap.Lookup(99)
	assert.False(t, ok)
}

func TestLoadClassMapMissingFile(t *testing.T) {
	classMap, err := LoadClassMap(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, classMap.Len())
}

func TestLoadClassMapInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "class_map.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadClassMap(path)
	assert.Error(t, err)
}

func TestClassMapAnnotate(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)

	annotated := classMap.Annotate(rawCandidate(1, "", 0.9))
	assert.Equal(t, "tomato", annotated.PlantLabel)
	assert.Equal(t, "late_blight", annotated.DiseaseLabel)

	// Backend-populated fields win over the map.
	annotated = classMap.Annotate(rawCandidate(1, "provided_label", 0.9))
	assert.Equal(t, "provided_label", annotated.PlantLabel)

	// No index means no annotation.
	noIndex := rawCandidate(1, "", 0.9)
	noIndex.ClassIndex = nil
	assert.Equal(t, noIndex, classMap.Annotate(noIndex))
}

func TestMockAdapterDeterministic(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)
	adapter := NewMockAdapter(classMap)
	img := testImage(t)

	first, err := adapter.PredictTopK(context.Background(), img, 3)
	require.NoError(t, err)
	second, err := adapter.PredictTopK(context.Background(), img, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, 0.94, first[0].Confidence)
	assert.Equal(t, 0.88, first[1].Confidence)
	assert.Equal(t, 0.69, first[2].Confidence)
	for _, candidate := range first {
		assert.NotNil(t, candidate.ClassIndex)
		assert.NotEmpty(t, candidate.PlantLabel)
	}
}

func TestMockAdapterRejectsNonImage(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)
	adapter := NewMockAdapter(classMap)

	_, err := adapter.PredictTopK(context.Background(), []byte("definitely not an image"), 3)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidImage, appErr.Type)
}

func TestMockAdapterTopKCapped(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)
	adapter := NewMockAdapter(classMap)

	candidates, err := adapter.PredictTopK(context.Background(), testImage(t), 10)
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestHTTPAdapterPredictTopK(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "3", r.FormValue("top_k"))

		w.Header().Set("Content-Type", "application/json")
		// Out of order on purpose; the adapter restores the ranking.
		_, _ = w.Write([]byte(`{"predictions": [
			{"class_index": 1, "confidence": 0.31},
			{"class_index": 0, "confidence": 0.82}
		]}`))
	}))
	defer server.Close()

	adapter := NewHTTPAdapter(server.URL, 0, classMap)
	candidates, err := adapter.PredictTopK(context.Background(), testImage(t), 3)
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, 0.82, candidates[0].Confidence)
	assert.Equal(t, "apple", candidates[0].PlantLabel)
	assert.Equal(t, "black_rot", candidates[0].DiseaseID)
	assert.Equal(t, "tomato", candidates[1].PlantLabel)
}

func TestHTTPAdapterRejectedImage(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cannot decode image", http.StatusBadRequest)
	}))
	defer server.Close()

	adapter := NewHTTPAdapter(server.URL, 0, classMap)
	_, err := adapter.PredictTopK(context.Background(), []byte("junk"), 3)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeInvalidImage, appErr.Type)
}

func TestHTTPAdapterServerError(t *testing.T) {
	classMap := writeClassMap(t, testClassMapJSON)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewHTTPAdapter(server.URL, 0, classMap)
	_, err := adapter.PredictTopK(context.Background(), testImage(t), 3)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeExternal, appErr.Type)
}
