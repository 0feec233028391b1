package classifier

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/domain/providers"
	"github.com/plantio/backend/pkg/config"
)

// NewClassifierProvider selects an inference backend from configuration.
// An http provider without a URL degrades to the mock so the API can still
// come up in development.
func NewClassifierProvider(cfg config.ClassifierConfig, classMap *ClassMap) providers.ClassifierProvider {
	switch cfg.Provider {
	case "http":
		if cfg.URL == "" {
			log.Warn().Msg("Classifier provider is http but no URL is configured, using mock")
			return NewMockAdapter(classMap)
		}
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewHTTPAdapter(cfg.URL, timeout, classMap)
	case "mock":
		return NewMockAdapter(classMap)
	default:
		log.Warn().Str("provider", cfg.Provider).Msg("Unknown classifier provider, using mock")
		return NewMockAdapter(classMap)
	}
}
