package routes

import (
	"net/http"

	"github.com/plantio/backend/internal/api/handlers"
	"github.com/plantio/backend/internal/api/middleware"
	"github.com/plantio/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	diagnoseHandler *handlers.DiagnoseHandler
	plantHandler    *handlers.PlantHandler
	diseaseHandler  *handlers.DiseaseHandler
	healthHandler   *handlers.HealthHandler
	sseHandler      *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	diagnoseHandler *handlers.DiagnoseHandler,
	plantHandler *handlers.PlantHandler,
	diseaseHandler *handlers.DiseaseHandler,
	healthHandler *handlers.HealthHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		diagnoseHandler: diagnoseHandler,
		plantHandler:    plantHandler,
		diseaseHandler:  diseaseHandler,
		healthHandler:   healthHandler,
		sseHandler:      sseHandler,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health endpoints
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /health/db", r.healthHandler.HealthDB)
	r.mux.HandleFunc("GET /health/model", r.healthHandler.HealthModel)
	r.mux.HandleFunc("GET /health/app", r.healthHandler.HealthApp)

	// Diagnosis endpoints
	r.mux.HandleFunc("POST /api/diagnose", r.diagnoseHandler.Diagnose)
	r.mux.HandleFunc("GET /api/diagnoses/stream", r.sseHandler.StreamDiagnoses)
	r.mux.HandleFunc("GET /api/diagnoses/{id}", r.diagnoseHandler.GetDiagnosis)

	// Plant endpoints
	r.mux.HandleFunc("GET /api/plants", r.plantHandler.ListPlants)
	r.mux.HandleFunc("GET /api/plants/{id}", r.plantHandler.GetPlant)

	// Disease endpoints
	r.mux.HandleFunc("GET /api/diseases", r.diseaseHandler.ListDiseases)
	r.mux.HandleFunc("GET /api/diseases/{id}", r.diseaseHandler.GetDisease)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so every response carries the headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
