package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/adapters/database"
	"github.com/plantio/backend/internal/adapters/search"
	"github.com/plantio/backend/internal/application/services"
	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/infrastructure/clients/postgres"
	"github.com/plantio/backend/internal/infrastructure/clients/typesense"
	"github.com/plantio/backend/internal/infrastructure/observability"
	"github.com/plantio/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS plants (
	id TEXT PRIMARY KEY,
	plant_name TEXT NOT NULL,
	scientific_name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	diseases JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS diseases (
	id TEXT PRIMARY KEY,
	plant_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	symptoms JSONB NOT NULL DEFAULT '[]',
	causes TEXT NOT NULL DEFAULT '',
	treatments JSONB NOT NULL DEFAULT '[]',
	gallery JSONB NOT NULL DEFAULT '[]',
	popularity INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS diagnoses (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	image_sha256 TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL DEFAULT '',
	plant_id TEXT,
	decided_disease_id TEXT,
	candidates JSONB,
	inference_ms BIGINT NOT NULL DEFAULT 0
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("plantio-seed", cfg.App.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgClient.Close()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE plants, diseases, diagnoses`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	dialect := goqu.Dialect("postgres")

	for _, plant := range seedPlants() {
		diseasesJSON, err := json.Marshal(plant.Diseases)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to marshal plant diseases")
		}

		query, args, err := dialect.Insert("plants").Rows(goqu.Record{
			"id":              plant.ID,
			"plant_name":      plant.PlantName,
			"scientific_name": plant.ScientificName,
			"description":     plant.Description,
			"image_url":       plant.ImageURL,
			"diseases":        string(diseasesJSON),
		}).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build plant insert")
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Error().Err(err).Str("plant", plant.PlantName).Msg("Failed to seed plant")
		}
	}

	for _, disease := range seedDiseases() {
		symptomsJSON, _ := json.Marshal(disease.Symptoms)
		treatmentsJSON, _ := json.Marshal(disease.Treatments)
		galleryJSON, _ := json.Marshal(disease.Gallery)

		query, args, err := dialect.Insert("diseases").Rows(goqu.Record{
			"id":         disease.ID,
			"plant_id":   disease.PlantID,
			"name":       disease.Name,
			"symptoms":   string(symptomsJSON),
			"causes":     disease.Causes,
			"treatments": string(treatmentsJSON),
			"gallery":    string(galleryJSON),
			"popularity": disease.Popularity,
		}).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build disease insert")
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Error().Err(err).Str("disease", disease.Name).Msg("Failed to seed disease")
		}
	}

	log.Info().Msg("Seeded plants and diseases")

	// Rebuild the search index when Typesense is reachable.
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, skipping index rebuild")
		return
	}

	diseaseService := services.NewDiseaseService(
		database.NewDiseaseAdapter(pgClient),
		search.NewTypesenseAdapter(tsClient),
	)
	indexed, err := diseaseService.Reindex(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to rebuild search index")
	}
	log.Info().Int("indexed", indexed).Msg("Search index rebuilt")
}

func seedPlants() []entities.Plant {
	return []entities.Plant{
		{
			ID:             "pl_apple",
			PlantName:      "Яблуня",
			ScientificName: "Malus domestica",
			Description:    "Плодове дерево помірного клімату.",
			Diseases: []entities.PlantDisease{
				{
					DiseaseName: "Чорна гниль",
					Description: "Грибкове ураження плодів та листя.",
					Symptoms:    []string{"бурі плями на листі", "муміфіковані плоди"},
					Prevention:  []string{"санітарна обрізка", "прибирання опалого листя"},
					Treatment:   []string{"фунгіцид на основі каптану"},
					RiskLevel:   "high",
				},
				{
					DiseaseName: "Парша",
					Description: "Найпоширеніша хвороба яблуні.",
					Symptoms:    []string{"оливкові плями", "розтріскування плодів"},
					RiskLevel:   "medium",
				},
			},
		},
		{
			ID:             "pl_tomato",
			PlantName:      "Помідор",
			ScientificName: "Solanum lycopersicum",
			Description:    "Однорічна овочева культура.",
			Diseases: []entities.PlantDisease{
				{
					DiseaseName: "Фітофтороз томату",
					Description: "Руйнівне грибкове захворювання у вологу погоду.",
					Symptoms:    []string{"водянисті плями", "білий наліт на звороті листя"},
					Prevention:  []string{"провітрювання теплиці", "стійкі сорти"},
					Treatment:   []string{"мідьвмісні препарати"},
					RiskLevel:   "high",
				},
			},
		},
		{
			ID:             "pl_potato",
			PlantName:      "Картопля",
			ScientificName: "Solanum tuberosum",
			Description:    "Основна бульбова культура.",
			Diseases: []entities.PlantDisease{
				{
					DiseaseName: "Фітофтороз картоплі",
					Description: "Ураження бадилля та бульб.",
					Symptoms:    []string{"темні плями на листі", "гниль бульб"},
					RiskLevel:   "high",
				},
			},
		},
		{
			ID:             "pl_grape",
			PlantName:      "Виноград",
			ScientificName: "Vitis vinifera",
			Description:    "Багаторічна ліана.",
		},
	}
}

func seedDiseases() []entities.Disease {
	return []entities.Disease{
		{
			ID:       "black_rot",
			PlantID:  "pl_apple",
			Name:     "Чорна гниль",
			Symptoms: []string{"бурі плями", "муміфіковані плоди"},
			Causes:   "Botryosphaeria obtusa",
			Treatments: []entities.DiseaseTreatment{
				{Name: "Санітарна обрізка", Description: "Видалення уражених гілок"},
				{Name: "Фунгіцид", Dosage: "за інструкцією"},
			},
			Popularity: 10,
		},
		{
			ID:       "late_blight",
			PlantID:  "pl_tomato",
			Name:     "Фітофтороз",
			Symptoms: []string{"водянисті плями", "білий наліт"},
			Causes:   "Phytophthora infestans",
			Treatments: []entities.DiseaseTreatment{
				{Name: "Мідьвмісні препарати"},
			},
			Popularity: 9,
		},
		{
			ID:         "scab",
			PlantID:    "pl_apple",
			Name:       "Парша",
			Symptoms:   []string{"оливкові плями", "розтріскування плодів"},
			Causes:     "Venturia inaequalis",
			Popularity: 8,
		},
		{
			ID:         "powdery_mildew",
			PlantID:    "pl_grape",
			Name:       "Борошниста роса",
			Symptoms:   []string{"білий наліт на листі"},
			Causes:     "Erysiphe necator",
			Popularity: 7,
		},
		{
			ID:         "healthy",
			Name:       "Здорова рослина",
			Symptoms:   []string{},
			Popularity: 1,
		},
	}
}
