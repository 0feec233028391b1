package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/adapters/cache"
	"github.com/plantio/backend/internal/adapters/classifier"
	"github.com/plantio/backend/internal/adapters/database"
	"github.com/plantio/backend/internal/adapters/events"
	"github.com/plantio/backend/internal/adapters/search"
	"github.com/plantio/backend/internal/adapters/storage"
	"github.com/plantio/backend/internal/api/handlers"
	"github.com/plantio/backend/internal/api/routes"
	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/providers"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	"github.com/plantio/backend/internal/infrastructure/clients/redis"
	"github.com/plantio/backend/internal/infrastructure/clients/typesense"
	"github.com/plantio/backend/internal/infrastructure/observability"
	"github.com/plantio/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it the API runs uncached and without the
	// live event stream.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Typesense is optional: disease listings fall back to PostgreSQL.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, search disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	basePlantAdapter := database.NewPlantAdapter(pgClient)
	var plantAdapter repositories.PlantRepository = basePlantAdapter
	if cacheProvider != nil {
		plantAdapter = database.NewCachedPlantAdapter(basePlantAdapter, cacheProvider, metrics)
		log.Info().Msg("Plant adapter wrapped with caching layer")
	}

	diseaseAdapter := database.NewDiseaseAdapter(pgClient)
	diagnosisAdapter := database.NewDiagnosisAdapter(pgClient)

	var searchRepo repositories.DiseaseSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	blobStore, err := storage.NewLocalBlobStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	classMap, err := classifier.LoadClassMap(cfg.Classifier.ClassMapPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load class map")
	}
	classifierProvider := classifier.NewClassifierProvider(cfg.Classifier, classMap)
	log.Info().Str("backend", classifierProvider.Backend()).Msg("Classifier initialized")

	// Initialize services
	enrichmentService := services.NewEnrichmentService(plantAdapter)
	diagnosisService := services.NewDiagnosisService(
		classifierProvider,
		blobStore,
		enrichmentService,
		diagnosisAdapter,
		eventBus,
		metrics,
		cfg.Diagnosis.MinConfidence,
		cfg.Classifier.DefaultTopK,
	)
	plantService := services.NewPlantService(plantAdapter)
	diseaseService := services.NewDiseaseService(diseaseAdapter, searchRepo)

	// Initialize handlers
	diagnoseHandler := handlers.NewDiagnoseHandler(diagnosisService)
	plantHandler := handlers.NewPlantHandler(plantService)
	diseaseHandler := handlers.NewDiseaseHandler(diseaseService)
	healthHandler := handlers.NewHealthHandler(cfg, pgClient, diagnosisService)
	sseHandler := handlers.NewSSEHandler(eventBus)

	router := routes.NewRouter(
		diagnoseHandler,
		plantHandler,
		diseaseHandler,
		healthHandler,
		sseHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
