package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "plantio", cfg.Database.Database)
	assert.Equal(t, "mock", cfg.Classifier.Provider)
	assert.Equal(t, 3, cfg.Classifier.DefaultTopK)
	assert.Equal(t, "./storage/uploads", cfg.Storage.UploadDir)
	assert.InDelta(t, 0.6, cfg.Diagnosis.MinConfidence, 1e-9)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MIN_CONFIDENCE", "0.75")
	t.Setenv("CLASSIFIER_PROVIDER", "http")
	t.Setenv("CLASSIFIER_URL", "http://inference:9000")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9091, cfg.Server.Port)
	assert.InDelta(t, 0.75, cfg.Diagnosis.MinConfidence, 1e-9)
	assert.Equal(t, "http", cfg.Classifier.Provider)
	assert.Equal(t, "http://inference:9000", cfg.Classifier.URL)
	assert.True(t, cfg.OTEL.Enabled)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("MIN_CONFIDENCE", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 0.6, cfg.Diagnosis.MinConfidence, 1e-9)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "plantio",
		Password: "secret",
		Database: "plantio",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=plantio password=secret dbname=plantio sslmode=disable",
		cfg.DatabaseDSN(),
	)
}
