package catalog

import (
	"context"
	"encoding/json"
	"time"

	"beatstore/db"
	"beatstore/logger"
	"beatstore/model"

	"github.com/go-redis/redis/v8"
)

const (
	listedCatalogKey = "catalog:listed"
	listedCatalogTTL = 5 * time.Minute
)

// GetCachedListed returns the cached public catalog, or nil when the cache
// is cold or Redis is unavailable. Cache problems are logged, never
// surfaced: the caller falls back to the repository.
func GetCachedListed(ctx context.Context) []*model.Beat {
	if db.RedisClient == nil {
		return nil
	}

	data, err := db.RedisClient.Get(ctx, listedCatalogKey).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logger.Warn("failed to read catalog cache", logger.ErrorField(err))
		return nil
	}

	var records []*model.Beat
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("corrupt catalog cache entry, dropping it", logger.ErrorField(err))
		db.RedisClient.Del(ctx, listedCatalogKey)
		return nil
	}
	return records
}

// SetCachedListed stores the public catalog with a short TTL.
func SetCachedListed(ctx context.Context, records []*model.Beat) {
	if db.RedisClient == nil {
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		logger.Warn("failed to marshal catalog for cache", logger.ErrorField(err))
		return
	}
	if err := db.RedisClient.Set(ctx, listedCatalogKey, data, listedCatalogTTL).Err(); err != nil {
		logger.Warn("failed to write catalog cache", logger.ErrorField(err))
	}
}

// InvalidateListed drops the cached catalog. Called after every beat
// mutation so the public listing never serves a stale record for long.
func InvalidateListed(ctx context.Context) {
	if db.RedisClient == nil {
		return
	}
	if err := db.RedisClient.Del(ctx, listedCatalogKey).Err(); err != nil {
		logger.Warn("failed to invalidate catalog cache", logger.ErrorField(err))
	}
}
