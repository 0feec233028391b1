package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/plantio/backend/internal/domain/entities"
	"github.com/plantio/backend/internal/domain/providers"
	"github.com/plantio/backend/internal/domain/repositories"
	"github.com/plantio/backend/internal/infrastructure/observability"
)

// Cache TTLs (in seconds)
const (
	plantByIDTTL   = 300
	plantByNameTTL = 300
	plantListTTL   = 120
)

// CachedPlantAdapter wraps a PlantRepository with Redis caching. The hot path
// is GetByName: enrichment performs up to two name lookups per candidate.
type CachedPlantAdapter struct {
	adapter repositories.PlantRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedPlantAdapter creates a new cached plant adapter.
func NewCachedPlantAdapter(adapter repositories.PlantRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.PlantRepository {
	return &CachedPlantAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

func plantIDCacheKey(id string) string {
	return fmt.Sprintf("plant:id:%s", id)
}

func plantNameCacheKey(name string) string {
	return fmt.Sprintf("plant:name:%s", strings.ToLower(name))
}

func plantListCacheKey(filter repositories.PlantFilter) string {
	return fmt.Sprintf("plant:list:%s:%d:%d", strings.ToLower(filter.Query), filter.Limit, filter.Offset)
}

// GetByID retrieves a plant by id with caching.
func (a *CachedPlantAdapter) GetByID(ctx context.Context, id string) (*entities.Plant, error) {
	cacheKey := plantIDCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var plant entities.Plant
		if err := json.Unmarshal(cached, &plant); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "plant:id")
			return &plant, nil
		}
	}
	observability.RecordCacheMiss(ctx, a.metrics, "plant:id")

	plant, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, plant, plantByIDTTL)
	return plant, nil
}

// GetByName retrieves a plant by display name with caching. Only positive
// results are cached; a miss must stay a miss for the caller to fall back.
func (a *CachedPlantAdapter) GetByName(ctx context.Context, name string) (*entities.Plant, error) {
	cacheKey := plantNameCacheKey(name)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var plant entities.Plant
		if err := json.Unmarshal(cached, &plant); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "plant:name")
			return &plant, nil
		}
	}
	observability.RecordCacheMiss(ctx, a.metrics, "plant:name")

	plant, err := a.adapter.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, plant, plantByNameTTL)
	return plant, nil
}

// List retrieves plants with caching.
func (a *CachedPlantAdapter) List(ctx context.Context, filter repositories.PlantFilter) ([]*entities.Plant, error) {
	cacheKey := plantListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var plants []*entities.Plant
		if err := json.Unmarshal(cached, &plants); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "plant:list")
			return plants, nil
		}
	}
	observability.RecordCacheMiss(ctx, a.metrics, "plant:list")

	plants, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, plants, plantListTTL)
	return plants, nil
}

// storeAsync updates the cache off the request path.
func (a *CachedPlantAdapter) storeAsync(key string, value interface{}, ttlSeconds int) {
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttlSeconds); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("failed to update plant cache")
		}
	}()
}
