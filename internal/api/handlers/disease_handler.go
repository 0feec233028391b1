package handlers

import (
	"net/http"

	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/repositories"
)

// DiseaseHandler handles disease-related HTTP requests
type DiseaseHandler struct {
	service *services.DiseaseService
}

// NewDiseaseHandler creates a new disease handler
func NewDiseaseHandler(service *services.DiseaseService) *DiseaseHandler {
	return &DiseaseHandler{service: service}
}

// ListDiseases handles GET /api/diseases
func (h *DiseaseHandler) ListDiseases(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)
	query := r.URL.Query()

	sort := query.Get("sort")
	if sort == "" {
		sort = "-popularity"
	}

	filter := repositories.DiseaseFilter{
		Query:   query.Get("query"),
		PlantID: query.Get("plant_id"),
		Sort:    sort,
		Limit:   size,
		Offset:  page * size,
	}

	diseases, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list diseases")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": diseases,
		"page":  page,
		"size":  size,
		"count": len(diseases),
	})
}

// GetDisease handles GET /api/diseases/{id}
func (h *DiseaseHandler) GetDisease(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "disease ID is required")
		return
	}

	disease, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, disease)
}
