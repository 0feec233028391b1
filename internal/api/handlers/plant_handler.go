package handlers

import (
	"net/http"
	"strconv"

	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/repositories"
)

// PlantHandler handles plant-related HTTP requests
type PlantHandler struct {
	service *services.PlantService
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(service *services.PlantService) *PlantHandler {
	return &PlantHandler{service: service}
}

// ListPlants handles GET /api/plants
func (h *PlantHandler) ListPlants(w http.ResponseWriter, r *http.Request) {
	page, size := parsePagination(r)

	filter := repositories.PlantFilter{
		Query:  r.URL.Query().Get("query"),
		Limit:  size,
		Offset: page * size,
	}

	plants, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list plants")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"items": plants,
		"page":  page,
		"size":  size,
		"count": len(plants),
	})
}

// GetPlant handles GET /api/plants/{id}
func (h *PlantHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "plant ID is required")
		return
	}

	plant, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, plant)
}

// parsePagination reads page/size query parameters with the API defaults.
func parsePagination(r *http.Request) (page, size int) {
	page = 0
	size = 20

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return page, size
}
