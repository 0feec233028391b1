package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/adapters/database"
	"github.com/plantio/backend/internal/adapters/search"
	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	"github.com/plantio/backend/internal/infrastructure/clients/typesense"
	"github.com/plantio/backend/internal/infrastructure/observability"
	"github.com/plantio/backend/pkg/config"
)

// Rebuilds the Typesense diseases index from the database. Run after bulk
// content changes or when the search cluster was recreated.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("plantio-indexer", cfg.App.Env)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Typesense")
	}

	diseaseService := services.NewDiseaseService(
		database.NewDiseaseAdapter(pgClient),
		search.NewTypesenseAdapter(tsClient),
	)

	indexed, err := diseaseService.Reindex(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Reindex failed")
	}
	log.Info().Int("indexed", indexed).Msg("Search index rebuilt")
}
