package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/plantio/backend/internal/application/services"
	apperrors "github.com/plantio/backend/pkg/errors"
)

// maxUploadBytes bounds the multipart form held in memory per request.
const maxUploadBytes = 10 << 20

// DiagnoseHandler handles diagnosis-related HTTP requests
type DiagnoseHandler struct {
	service *services.DiagnosisService
}

// NewDiagnoseHandler creates a new diagnose handler
func NewDiagnoseHandler(service *services.DiagnosisService) *DiagnoseHandler {
	return &DiagnoseHandler{service: service}
}

// Diagnose handles POST /api/diagnose
func (h *DiagnoseHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	input := services.DiagnoseInput{
		Filename: header.Filename,
		Image:    content,
	}
	if v := r.FormValue("topK"); v != "" {
		topK, err := strconv.Atoi(v)
		if err != nil {
			respondWithAppError(w, apperrors.NewValidationError("topK must be an integer"))
			return
		}
		input.TopK = topK
	}
	if v := r.FormValue("threshold"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondWithAppError(w, apperrors.NewValidationError("threshold must be a number"))
			return
		}
		input.Threshold = threshold
	}

	output, err := h.service.Diagnose(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if output.DecidedDiseaseID == "" {
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"message":    "low_confidence",
			"candidates": output.Candidates,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, output)
}

// GetDiagnosis handles GET /api/diagnoses/{id}
func (h *DiagnoseHandler) GetDiagnosis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "diagnosis ID is required")
		return
	}

	diagnosis, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, diagnosis)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP statuses.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeEmptyInput, apperrors.ErrorTypeInvalidImage, apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}
