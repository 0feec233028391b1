package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Typesense  TypesenseConfig
	Classifier ClassifierConfig
	Storage    StorageConfig
	Diagnosis  DiagnosisConfig
	OTEL       OTELConfig
}

// AppConfig holds application identity configuration
type AppConfig struct {
	Name    string
	Version string
	Env     string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// ClassifierConfig holds classifier provider configuration
type ClassifierConfig struct {
	// Provider selects the inference backend: "http" or "mock".
	Provider string
	// URL is the base URL of the external inference service.
	URL string
	// ClassMapPath points at the class_map.json emitted during model export.
	ClassMapPath string
	// TimeoutSeconds bounds a single inference call.
	TimeoutSeconds int
	// DefaultTopK is used when the request does not specify topK.
	DefaultTopK int
}

// StorageConfig holds upload storage configuration
type StorageConfig struct {
	UploadDir string
}

// DiagnosisConfig holds decision policy configuration
type DiagnosisConfig struct {
	// MinConfidence is the operator floor for the decision threshold.
	// Request thresholds below it are raised to it, never lowered.
	MinConfidence float64
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "Plantio API"),
			Version: getEnv("APP_VERSION", "0.1.0"),
			Env:     getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "plantio"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Classifier: ClassifierConfig{
			Provider:       getEnv("CLASSIFIER_PROVIDER", "mock"),
			URL:            getEnv("CLASSIFIER_URL", ""),
			ClassMapPath:   getEnv("CLASSIFIER_CLASS_MAP_PATH", "./config/class_map.json"),
			TimeoutSeconds: getEnvAsInt("CLASSIFIER_TIMEOUT_SECONDS", 20),
			DefaultTopK:    getEnvAsInt("CLASSIFIER_DEFAULT_TOPK", 3),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./storage/uploads"),
		},
		Diagnosis: DiagnosisConfig{
			MinConfidence: getEnvAsFloat("MIN_CONFIDENCE", 0.6),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "plantio-backend"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
